package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/localconnect/catalog-manager/config"
	httpapi "github.com/localconnect/catalog-manager/internal/api/http"
	"github.com/localconnect/catalog-manager/internal/auth/jwt"
	"github.com/localconnect/catalog-manager/internal/catalog"
	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/localconnect/catalog-manager/internal/store"
)

const shutdownTimeout = 10 * time.Second

// App is the main application
type App struct {
	hs   *httpapi.Server
	db   dependency.Repository
	c    *config.Config
	once sync.Once
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting catalog manager")

	ja, _, err := jwt.New(&a.c.Auth)
	if err != nil {
		return fmt.Errorf("can't configure auth: %w", err)
	}

	repo, err := store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql", slog.String("err", err.Error()))
		return err
	}
	a.db = repo

	b, err := a.c.Bucket.New()
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed create new bucket", slog.String("err", err.Error()))
		a.db.Close()
		return err
	}

	svc := catalog.New(&a.c.Catalog, a.db, b)

	a.hs = httpapi.New(&a.c.HTTP, svc, ja)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		a.db.Close()
		return err
	}

	go func() {
		<-a.hs.Done()
		a.stop()
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
		}
		<-a.hs.Done()
	}
	a.stop()
}

func (a *App) stop() {
	a.once.Do(func() {
		if a.db != nil {
			a.db.Close()
		}
		close(a.done)
	})
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
