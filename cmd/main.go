package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/adapters"
	"goban/internal/bootstrap"
	gameDelivery "goban/internal/delivery/game"
	ownMiddleware "goban/internal/middleware"
	repo "goban/internal/repository"
	gameuc "goban/internal/usecase/game"
)

const shutdownTimeout = 5 * time.Second

type stores struct {
	positions gameuc.PositionStore
	archive   gameuc.MoveArchive
	closers   []func(context.Context) error
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	if cfg.BoardID == "" {
		cfg.BoardID = uuid.New().String()
		logger.Infof("BOARD_ID not set, hosting new board %s", cfg.BoardID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := initStores(ctx, logger, cfg)
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(context.Background()); err != nil {
				logger.Warnf("close store: %v", err)
			}
		}
	}()

	gameUC, err := gameuc.NewGameUseCase(cfg.BoardID, cfg.BoardSize, st.positions, st.archive, logger)
	if err != nil {
		logger.Fatal("Failed to create board", zap.Error(err))
	}
	if err := gameUC.Restore(ctx); err != nil {
		logger.Fatal("Failed to restore board", zap.Error(err))
	}

	r := chi.NewRouter()
	Router(r, cfg.IsLocalCors, gameDelivery.NewGameHandler(logger, gameUC))

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go handleShutdown(srv, cancel, logger)

	logger.Infof("Serving %dx%d board %s on %s", cfg.BoardSize, cfg.BoardSize, cfg.BoardID, cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func Router(r *chi.Mux, isLocalCors bool, game *gameDelivery.GameHandler) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	game.Routes(r)
}

// initStores connects redis and mongo when they are configured and falls back
// to in-memory stores otherwise.
func initStores(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) stores {
	st := stores{
		positions: repo.NewMemoryPositionStore(),
		archive:   repo.NewMemoryMoveArchive(),
	}

	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		st.positions = repo.NewRedisPositionStore(log, redisAdapter.GetClient())
		st.closers = append(st.closers, redisAdapter.Close)
	} else {
		log.Info("REDIS_URL not set, positions are kept in memory")
	}

	if cfg.MongoUri != "" {
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			log.Fatal("Failed to initialize mongo", zap.Error(err))
		}
		st.archive = repo.NewMongoMoveArchive(log, mongoAdapter.Database)
		st.closers = append(st.closers, mongoAdapter.Close)
	} else {
		log.Info("MONGO_URI not set, moves are kept in memory")
	}

	return st
}

func handleShutdown(srv *http.Server, cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Server forced to shutdown: %v", err)
	}
	cancelFunc()
}
