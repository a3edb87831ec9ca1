package app

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	routerApp "github.com/GintGld/chat-envboot/internal/app/router"
	"github.com/GintGld/chat-envboot/internal/config"
	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
	"github.com/GintGld/chat-envboot/internal/lib/migrator"
	"github.com/GintGld/chat-envboot/internal/models"
	bootstrapSrv "github.com/GintGld/chat-envboot/internal/service/bootstrap"
	envcheckSrv "github.com/GintGld/chat-envboot/internal/service/envcheck"
	historySrv "github.com/GintGld/chat-envboot/internal/service/history"
	shellSrv "github.com/GintGld/chat-envboot/internal/service/shell"
	"github.com/GintGld/chat-envboot/internal/storage/sqlite"
)

type App struct {
	log     *slog.Logger
	envPath string
	storage *sqlite.Storage

	Bootstrap *bootstrapSrv.Bootstrap
	EnvCheck  *envcheckSrv.EnvCheck
	Shell     *shellSrv.Shell
	Router    routerApp.App
}

// Store is an environment the app bootstraps into.
type Store interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Keys(prefix string) []string
}

// New wires services. Run history is enabled
// only when storage path is configured.
func New(
	log *slog.Logger,
	cfg *config.Config,
	store Store,
	reg *prometheus.Registry,
) *App {
	var (
		recorder   bootstrapSrv.RunRecorder
		runStorage historySrv.RunStorage
		storage    *sqlite.Storage
	)

	if cfg.StoragePath != "" {
		if _, err := migrator.Up(cfg.StoragePath, migrator.DefaultTable); err != nil {
			log.Error("failed to apply migrations, run history disabled", sl.Err(err))
		} else if s, err := sqlite.New(cfg.StoragePath); err != nil {
			log.Error("failed to init storage, run history disabled", sl.Err(err))
		} else {
			storage = s
			recorder = s
			runStorage = s
		}
	}

	prefix := cfg.EnvFile.Prefix
	if prefix == "" {
		prefix = models.DefaultPrefix
	}

	bootstrap := bootstrapSrv.New(
		log,
		store,
		prefix,
		recorder,
		bootstrapSrv.NewMetrics(reg),
	)

	envCheck := envcheckSrv.New(
		log,
		store,
		prefix,
		cfg.Required,
	)

	shell := shellSrv.New(
		log,
		store,
		prefix,
		cfg.Cache.Size,
		cfg.Cache.TTL,
	)

	history := historySrv.New(
		log,
		runStorage,
	)

	routerApp := routerApp.New(
		log,
		cfg.Address,
		cfg.HTTPServer.Timeout,
		cfg.IdleTimeout,
		reg,
		routerApp.Services{
			Shell:    shell,
			EnvCheck: envCheck,
			Renderer: shell,
			History:  history,
		},
	)

	return &App{
		log:       log,
		envPath:   cfg.EnvFile.Path(),
		storage:   storage,
		Bootstrap: bootstrap,
		EnvCheck:  envCheck,
		Shell:     shell,
		Router:    *routerApp,
	}
}

// BootstrapEnv propagates configured definition file into the store.
func (a *App) BootstrapEnv(ctx context.Context) models.Report {
	return a.Bootstrap.Bootstrap(ctx, a.envPath)
}

// SmokeCheck runs presence and render checks.
func (a *App) SmokeCheck() (models.CheckResult, error) {
	return a.EnvCheck.Check(), a.Shell.AssertRootRendered()
}

func (a *App) Stop() {
	a.Router.Stop()

	if a.storage != nil {
		if err := a.storage.Stop(); err != nil {
			a.log.Error("failed to close storage", sl.Err(err))
		}
	}
}
