// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"

	authadapters "heartlink/internal/feature/auth/adapters"
	matchadapters "heartlink/internal/feature/match/adapters"
	matchusecase "heartlink/internal/feature/match/usecase"
	messagingadapters "heartlink/internal/feature/messaging/adapters"
	messagingusecase "heartlink/internal/feature/messaging/usecase"
	"heartlink/internal/platform/cache"
	"heartlink/internal/platform/config"
	"heartlink/internal/platform/db"
	"heartlink/internal/platform/http/handler"
	platformmongo "heartlink/internal/platform/mongo"
	platformredis "heartlink/internal/platform/redis"
)

// MatchStore is the match ledger as used by matching and messaging.
type MatchStore interface {
	matchusecase.MatchRepository
	messagingusecase.MatchReader
}

// Stores holds the repositories for the selected backend.
type Stores struct {
	Users    cache.UserStore
	Matches  MatchStore
	Messages messagingusecase.MessageRepository

	// Pingers are reported by /readyz.
	Pingers map[string]handler.Pinger
	closers []func(ctx context.Context) error
}

// Close releases every connection opened by NewStores.
func (s *Stores) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewStores connects to the store named by cfg.StoreDriver and decorates the
// user store with the Redis candidate cache when Redis is reachable.
func NewStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{Pingers: map[string]handler.Pinger{}}

	var err error
	switch cfg.StoreDriver {
	case config.StoreMongo:
		err = s.openMongo(ctx, cfg)
	case config.StorePostgres:
		err = s.openGorm(func() (*gorm.DB, error) { return db.OpenPostgres(postgresConfig(cfg)) })
	case config.StoreSQLite:
		err = s.openGorm(func() (*gorm.DB, error) { return db.OpenSQLite(cfg.SQLitePath) })
	default:
		err = fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	rdb := NewRedis(ctx, cfg)
	if rdb != nil {
		s.Pingers["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
	}
	s.Users = NewUserStore(rdb, cfg, s.Users)
	return s, nil
}

func postgresConfig(cfg *config.Config) db.Config {
	return db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

func (s *Stores) openMongo(ctx context.Context, cfg *config.Config) error {
	client, database, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Disconnect)
	s.Pingers["mongo"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) })

	users := authadapters.NewUserMongo(database)
	matches := matchadapters.NewMatchMongo(database)
	messages := messagingadapters.NewMessageMongo(database)
	if err := platformmongo.EnsureIndexes(ctx, users, matches, messages); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	s.Users, s.Matches, s.Messages = users, matches, messages
	return nil
}

func (s *Stores) openGorm(open func() (*gorm.DB, error)) error {
	gdb, err := open()
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return sqlDB.Close() })
	s.Pingers["db"] = handler.PingFunc(sqlDB.PingContext)

	if err := db.Migrate(gdb, &authadapters.UserModel{}, &matchadapters.MatchModel{}, &messagingadapters.MessageModel{}); err != nil {
		return err
	}
	s.Users = authadapters.NewUserGorm(gdb)
	s.Matches = matchadapters.NewMatchGorm(gdb)
	s.Messages = messagingadapters.NewMessageGorm(gdb)
	return nil
}

// NewRedis returns a connected client, or nil when REDIS_ADDR is unset or the
// server is unreachable. The API runs without the candidate cache in that case.
func NewRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewUserStore wraps inner with the candidate cache when rdb is non-nil.
func NewUserStore(rdb *redis.Client, cfg *config.Config, inner cache.UserStore) cache.UserStore {
	if rdb == nil {
		return inner
	}
	return cache.NewCachingUserRepository(rdb, cfg.CandidateTTL, inner)
}
