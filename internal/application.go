package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-core/internal/server"
	"github.com/rocketscienceinc/tictactoe-core/internal/service"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
	"github.com/rocketscienceinc/tictactoe-core/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	gameRepo, recordRepo, closeStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	self, err := conf.Stats.Player()
	if err != nil {
		return err
	}

	var bot service.BotService
	if conf.Opponent.IsEnabled() {
		bot = service.NewBotService()
	}

	gameUseCase := usecase.NewGameManager(logger, gameRepo, bot, service.NewRecorderService(recordRepo, self))

	const servers = 2
	errCh := make(chan error, servers)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameUseCase)); httpErr != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", httpErr)
			return
		}
		errCh <- nil
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameUseCase).Start(ctx, conf.SocketPort); wsErr != nil {
			errCh <- fmt.Errorf("WebSocket server error: %w", wsErr)
			return
		}
		errCh <- nil
	}()

	running := servers

	var runErr error
	select {
	case runErr = <-errCh:
		running--
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()

	// storage is closed only after both servers have drained
	for ; running > 0; running-- {
		if err = <-errCh; err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}

	return runErr
}

// openStorage - builds the game and record repositories for the configured backend.
func openStorage(ctx context.Context, conf *config.Config) (repository.GameRepository, repository.RecordRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryGameRepository(), repository.NewMemoryRecordRepository(), func() error { return nil }, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRedisGameRepository(redisStorage.Connection),
		repository.NewRedisRecordRepository(redisStorage.Connection),
		redisStorage.Close,
		nil
}
