package router

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthCtr "github.com/GintGld/chat-envboot/internal/controller/health"
	runsCtr "github.com/GintGld/chat-envboot/internal/controller/runs"
	shellCtr "github.com/GintGld/chat-envboot/internal/controller/shell"
	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
)

type App struct {
	log     *slog.Logger
	address string
	app     *fiber.App
}

type Services struct {
	Shell    shellCtr.Shell
	EnvCheck healthCtr.EnvCheck
	Renderer healthCtr.Renderer
	History  runsCtr.History
}

// New returns configured router.App
func New(
	log *slog.Logger,
	address string,
	timeout time.Duration,
	idleTimeout time.Duration,
	gatherer prometheus.Gatherer,
	srv Services,
) *App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           timeout,
		WriteTimeout:          timeout,
		IdleTimeout:           idleTimeout,
		DisableStartupMessage: true,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Mount controllers to an app
	app.Mount("/health", healthCtr.New(srv.EnvCheck, srv.Renderer))
	app.Mount("/runs", runsCtr.New(srv.History))
	app.Mount("/", shellCtr.New(srv.Shell))

	return &App{
		log:     log,
		address: address,
		app:     app,
	}
}

// Handler exposes the fiber app, used in tests.
func (a *App) Handler() *fiber.App {
	return a.app
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	a.log.Info("http server started", slog.String("address", a.address))
	return a.app.Listen(a.address)
}

func (a *App) Stop() {
	if err := a.app.Shutdown(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}
}
