package rest

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

// NewRouter builds the HTTP API. Placement streaming is mounted only when subscriber is non-nil.
func NewRouter(logger *slog.Logger, boards boardService, subscriber placementSubscriber) http.Handler {
	boardHandler := NewBoardHandler(logger, boards)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/ping", ping)

	router.Route("/boards", func(r chi.Router) {
		r.Post("/", boardHandler.CreateBoard)
		r.Get("/", boardHandler.ListBoards)

		r.Route("/{boardID}", func(r chi.Router) {
			r.Get("/", boardHandler.GetBoard)
			r.Delete("/", boardHandler.DeleteBoard)
			r.Get("/resolve", boardHandler.ResolveNode)
			r.Get("/can-place", boardHandler.CanPlace)
			r.Post("/pieces", boardHandler.Place)
			r.Get("/cells/{x}/{y}", boardHandler.PieceKindAt)
		})
	})

	if subscriber != nil {
		router.Get("/events", NewEventsHandler(logger, subscriber).Stream)
	}

	return router
}

// Start serves handler on port until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, port string, handler http.Handler) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return Serve(ctx, listener, handler)
}

// Serve is Start on an existing listener. Request contexts derive from ctx so
// long-lived streams end when the server shuts down.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	shutdownErrCh := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErrCh <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := <-shutdownErrCh; err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Debug("request served",
				"requestID", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
