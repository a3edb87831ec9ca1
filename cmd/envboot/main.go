package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/GintGld/chat-envboot/internal/app"
	"github.com/GintGld/chat-envboot/internal/config"
	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
	"github.com/GintGld/chat-envboot/internal/lib/logger/slogpretty"
	"github.com/GintGld/chat-envboot/internal/storage/env"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var checkOnly bool

	flag.String("config", "", "path to config file")
	flag.BoolVar(&checkOnly, "check", false, "bootstrap environment, run checks and exit")
	flag.Parse()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting envboot", slog.String("env", cfg.Env), slog.String("env_file", cfg.EnvFile.Path()))
	log.Debug("debug messages are enabled")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	application := app.New(
		log,
		cfg,
		env.NewProcess(),
		reg,
	)

	application.BootstrapEnv(context.Background())

	res, err := application.SmokeCheck()
	if err != nil {
		log.Error("root element is not rendered", sl.Err(err))
	}
	if !res.OK() {
		log.Error("required variables are not defined", slog.Any("missing", res.Missing))
	}

	if checkOnly {
		application.Stop()
		if err != nil || !res.OK() {
			os.Exit(1)
		}
		log.Info("environment is ready")
		return
	}

	// Run server
	go func() {
		application.Router.MustRun()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	<-stop

	application.Stop()
	log.Info("Gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
