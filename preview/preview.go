package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewHandler returns a router serving the files of dir.
// Directory requests serve their index.html and GET
// /healthz answers "ok".
func NewHandler(dir string) http.Handler {
	rt := chi.NewRouter()

	rt.Use(middleware.RequestID)
	rt.Use(logRequests)
	rt.Use(middleware.Recoverer)

	rt.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // best-effort write
	})

	rt.Handle("/*", http.FileServer(http.Dir(dir)))

	return rt
}

// logRequests logs one line per request once it is
// served.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.Info(
				"served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// Serve listens on addr and serves dir until ctx is
// cancelled, then shuts the server down gracefully.
func Serve(ctx context.Context, addr string, dir string) error {
	const errCtx = "serving preview"

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return ServeListener(ctx, ln, dir)
}

// ServeListener serves dir on ln until ctx is cancelled.
// ln is closed on return.
func ServeListener(ctx context.Context, ln net.Listener, dir string) error {
	const errCtx = "serving preview"

	srv := &http.Server{
		Handler:           NewHandler(dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	slog.Info(
		"serving documentation",
		"url", "http://"+ln.Addr().String(),
		"dir", dir,
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("%s: %w", errCtx, err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), shutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", errCtx, err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("preview server stopped")

	return nil
}
