package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"BtcPulse/internal/domain/repository"
	"BtcPulse/internal/scheduler"
	"BtcPulse/pkg/config"
	xhttp "BtcPulse/pkg/http"
	applogger "BtcPulse/pkg/logger"
)

// App encapsulates the application lifecycle: price stream, refresh
// scheduler and HTTP server, started in that order and stopped in reverse.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	stream    repository.PriceStream // nil when the live stream is disabled
	scheduler *scheduler.Scheduler
	handler   xhttp.Handler
	server    *xhttp.Server
}

func New(
	cfg *config.Config,
	log *applogger.Logger,
	stream repository.PriceStream,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		stream:    stream,
		scheduler: sched,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.stream != nil {
		if err := a.stream.Connect(ctx); err != nil {
			// Stream is an enhancement; cycles fall back to the exchange
			// snapshot price.
			a.log.Warn("price stream connect failed, continuing without it", applogger.Error(err))
		} else {
			go a.stream.Start(ctx)
			a.log.Info("price stream started")
		}
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	a.server = xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.server.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx, cancel)
}

func (a *App) shutdown(ctx context.Context, cancel context.CancelFunc) error {
	shutdownCtx, done := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer done()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Error("http server stop error", applogger.Error(err))
	}

	a.scheduler.Stop()

	cancel()
	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			a.log.Error("price stream close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
