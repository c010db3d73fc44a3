package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	events "github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	geometry, err := conf.Board.Geometry()
	if err != nil {
		return fmt.Errorf("invalid board config: %w", err)
	}

	handler, closeEvents, err := buildHandler(ctx, logger, conf, geometry)
	if err != nil {
		return err
	}
	defer closeEvents()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort, "gridSize", geometry.GridSize)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, handler)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return <-httpErrCh
	}
}

// buildHandler wires the board stack. Placement events go through redis only when it is configured.
func buildHandler(ctx context.Context, logger *slog.Logger, conf *config.Config, geometry entity.Geometry) (http.Handler, func(), error) {
	boardRepo := repository.NewBoardRepository()

	if !conf.Redis.Enabled() {
		logger.Warn("redis host is empty, placement events are disabled")

		boards := service.NewBoardService(logger, geometry, boardRepo, events.NopPublisher{})

		return rest.NewRouter(logger, boards, nil), func() {}, nil
	}

	redisClient, err := events.Connect(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	closeRedis := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("could not close redis client", "error", err)
		}
	}

	publisher := events.NewPublisher(redisClient, conf.Redis.Channel)
	subscriber := events.NewSubscriber(logger, redisClient, conf.Redis.Channel)
	boards := service.NewBoardService(logger, geometry, boardRepo, publisher)

	return rest.NewRouter(logger, boards, subscriber), closeRedis, nil
}
