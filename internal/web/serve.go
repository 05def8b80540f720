package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
)

// ServeOptions configures ListenAndServe
type ServeOptions struct {
	Addr string
	// MaxConns caps concurrent connections. 0 means unlimited.
	MaxConns int
	// JanitorInterval is how often idle sessions are swept. 0 disables it.
	JanitorInterval time.Duration
	ShutdownTimeout time.Duration
	// Ready, when set, receives the bound address once listening.
	Ready func(addr net.Addr)
}

// ListenAndServe serves the router until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, opts ServeOptions) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}
	if opts.MaxConns > 0 {
		ln = netutil.LimitListener(ln, opts.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A turn can take up to the service timeout
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.store.RunJanitor(janitorCtx, opts.JanitorInterval, func(removed int) {
		s.logger.Info("expired sessions removed", "removed", removed, "sessions", s.store.Len())
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "max_conns", opts.MaxConns)
		if opts.Ready != nil {
			opts.Ready(ln.Addr())
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
