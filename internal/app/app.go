package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Application holds all the components and manages the application lifecycle
type Application struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container *Container
	services  *Services
	server    *http.Server
}

// NewApplication creates and fully initializes a new Application instance
func NewApplication(ctx context.Context) (*Application, error) {
	appCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	container, err := NewContainer(appCtx)
	if err != nil {
		cancel()
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	services, err := NewServiceFactory(container).Build()
	if err != nil {
		container.Shutdown(context.Background())
		cancel()
		return nil, err
	}

	app := &Application{
		ctx:       appCtx,
		cancel:    cancel,
		container: container,
		services:  services,
		server: &http.Server{
			Addr:         container.Config().HTTPAddr,
			Handler:      services.Router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}

	container.Logger().Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP and consumes order validation requests until the process is
// signalled or either loop fails.
func (app *Application) Run() error {
	logger := app.container.Logger()
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("🚀 HTTP server listening", zap.String("addr", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server: %w", err)
			app.cancel()
		}
	}()

	consumerErr := app.services.Consumer.Start(app.ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	select {
	case err := <-serverErr:
		return errors.Join(err, consumerErr)
	default:
		return consumerErr
	}
}

// Shutdown gracefully shuts down all application components
func (app *Application) Shutdown() {
	if app.container != nil {
		app.container.Logger().Info("Starting application shutdown...")
	}

	if app.cancel != nil {
		app.cancel()
	}

	if app.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.container.Shutdown(ctx)
	}
}
