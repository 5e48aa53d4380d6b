package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/askora/askora/internal/database"
	"github.com/askora/askora/internal/redis"
	"github.com/askora/askora/internal/setup/config"
	"go.uber.org/zap"
)

// App contains the shared runtime components.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	RedisManager *redis.Manager
	VoteCounts   *redis.VoteCountCache
	DB           database.Client
}

// InitializeApp loads the configuration and wires the logger, Redis clients
// and database connection.
func InitializeApp(ctx context.Context, autoMigrate bool) (*App, error) {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Debug.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Loaded configuration", zap.String("configDir", configDir))

	redisManager := redis.NewManager(&cfg.Redis, logger)

	cacheClient, err := redisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache client: %w", err)
	}

	voteCounts := redis.NewVoteCountCache(
		cacheClient, time.Duration(cfg.VoteCache.TTLSeconds)*time.Second, logger)

	db, err := database.NewConnection(ctx, &cfg.PostgreSQL, voteCounts, logger, autoMigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		RedisManager: redisManager,
		VoteCounts:   voteCounts,
		DB:           db,
	}, nil
}

// Cleanup releases the components in reverse setup order.
func (a *App) Cleanup() {
	if err := a.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	a.RedisManager.Close()

	if err := a.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
}

// newLogger builds a development logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = lvl

	return loggerConfig.Build()
}
