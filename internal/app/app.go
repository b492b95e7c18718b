package app

import (
	"database/sql"
	"errors"

	"go-hrms/internal/config"
	"go-hrms/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections shared by every binary.
type Infra struct {
	Cfg    *config.Config
	Logger *zap.Logger
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func Connect(cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
		cfg.DB.MaxRetries,
	)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.DB.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Infra{Cfg: cfg, Logger: logger, GormDB: gormDB, DB: sqlDB, Redis: rdb}, nil
}

func (i *Infra) Close() error {
	return errors.Join(i.Redis.Close(), i.DB.Close())
}
