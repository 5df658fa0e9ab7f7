package app

import (
	"context"
	"net/http"
)

// App wraps an HTTP server with its shutdown cleanup. Both services
// share this lifecycle: run until the context signals, then drain.
type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(port string, handler http.Handler, cleanup func() error) *App {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	return &App{
		httpServer: server,
		cleanup:    cleanup,
	}
}

func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
