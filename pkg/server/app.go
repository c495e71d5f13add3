package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "github.com/jomarcello/Signal-Processor/internal/domain/repository"
	"github.com/jomarcello/Signal-Processor/internal/repository"
	"github.com/jomarcello/Signal-Processor/pkg/config"
	xhttp "github.com/jomarcello/Signal-Processor/pkg/http"
	pkgkafka "github.com/jomarcello/Signal-Processor/pkg/kafka"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
)

// Log collector flush tuning for the Kafka error-log pipeline.
const (
	logFlushInterval = 30 * time.Second
	logFlushCount    = 100
)

// App encapsulates the relay lifecycle: the HTTP server, the Kafka-backed
// error-log collector, and the dispatch audit trail.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    xhttp.Handler
	producer   *pkgkafka.Producer
	audit      domrepo.AuditTrail
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. Producer and audit
// are nil when Kafka is not configured.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	audit domrepo.AuditTrail,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		handler:  handler,
		producer: producer,
		audit:    audit,
	}
}

// Run starts the relay and blocks until interrupted.
func (a *App) Run() error {
	if a.producer != nil {
		a.l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   logFlushInterval,
			CountThreshold: logFlushCount,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      repository.NewKafkaLogPublisher(a.producer),
		})
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler, a.l,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("signal processor started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no dispatch is cut off mid-flight,
// then drains the log collector and closes the audit trail.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	a.l.RemoveCollector()

	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			a.l.Warn("audit trail close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
