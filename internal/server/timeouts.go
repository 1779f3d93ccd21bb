// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
//   • ReadTimeout   – abort slow-loris uploads (30 s; avatars are ≤ 5 MiB)
//   • WriteTimeout  – cap total response time, upload included (45 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// Run owns the listen/shutdown lifecycle so cmd/web stays short.
//

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownGrace bounds how long in-flight requests may finish.
const ShutdownGrace = 10 * time.Second

// New constructs an *http.Server with sensible defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx ends, then shuts srv down gracefully.  It returns nil
// after a clean shutdown and the listen error otherwise.
func Run(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
		defer cancel()
		zap.S().Infow("shutting down", "addr", srv.Addr)
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
