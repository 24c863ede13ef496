// Package server initializes and runs the role-directory server.
// It opens the configured storage backend, seeds it, serves lookups over gRPC
// and exposes Prometheus metrics, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/metrics"
	"github.com/dmitrijs2005/secureguard/internal/roles"
	"github.com/dmitrijs2005/secureguard/internal/server/config"

	gs "github.com/dmitrijs2005/secureguard/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: os.Stdout})

	st, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	if len(c.ParentEmails) > 0 {
		if err := st.seed(ctx, roles.PartitionParents, c.ParentEmails); err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		logger.Info(ctx, "seeded parents", "count", len(c.ParentEmails))
	}

	return &App{config: c, logger: logger, store: st}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store.directory, app.config.APIKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.store.close(context.Background()); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
}
