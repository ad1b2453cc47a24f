package db

import (
	"context"
	"fmt"
	"time"

	"giapha-go/internal/config"
	"giapha-go/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
)

// poolSettings is the connection pool applied to the sql.DB behind gorm.
type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func poolFromConfig(cfg config.DBConfig) poolSettings {
	pool := poolSettings{
		maxOpen:     cfg.MaxOpenConns,
		maxIdle:     cfg.MaxIdleConns,
		maxLifetime: cfg.ConnMaxLifetime,
		maxIdleTime: cfg.ConnMaxIdleTime,
	}
	if pool.maxOpen <= 0 {
		pool.maxOpen = defaultMaxOpenConns
	}
	if pool.maxIdle <= 0 {
		pool.maxIdle = defaultMaxIdleConns
	}
	// Idle connections above the open limit would never be reused.
	if pool.maxIdle > pool.maxOpen {
		pool.maxIdle = pool.maxOpen
	}
	if pool.maxLifetime <= 0 {
		pool.maxLifetime = defaultConnMaxLifetime
	}
	if pool.maxIdleTime <= 0 {
		pool.maxIdleTime = defaultConnMaxIdleTime
	}
	return pool
}

func gormConfig(cfg config.DBConfig, log logger.Logger) *gorm.Config {
	return &gorm.Config{Logger: newGormLog(log, cfg.LogLevel, cfg.SlowQuery)}
}

func NewPostgres(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.DSN != "" {
		log.Info("db: connecting using DSN")
	} else {
		log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode, "application_name", cfg.AppName)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	pool := poolFromConfig(cfg)
	sqlDB.SetMaxOpenConns(pool.maxOpen)
	sqlDB.SetMaxIdleConns(pool.maxIdle)
	sqlDB.SetConnMaxLifetime(pool.maxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("db: connected", "max_open_conns", pool.maxOpen, "max_idle_conns", pool.maxIdle)
	return gormDB, nil
}
