package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"giapha-go/internal/config"
	"giapha-go/internal/db"
	accountdomain "giapha-go/internal/domain/account"
	albumdomain "giapha-go/internal/domain/album"
	funddomain "giapha-go/internal/domain/fund"
	memberdomain "giapha-go/internal/domain/member"
	memorialdomain "giapha-go/internal/domain/memorial"
	newsdomain "giapha-go/internal/domain/news"
	settingsdomain "giapha-go/internal/domain/settings"
	statsdomain "giapha-go/internal/domain/stats"
	treedomain "giapha-go/internal/domain/tree"
	"giapha-go/internal/repository/inmemory"
	accountrepo "giapha-go/internal/repository/postgres/account"
	albumrepo "giapha-go/internal/repository/postgres/album"
	fundrepo "giapha-go/internal/repository/postgres/fund"
	memberrepo "giapha-go/internal/repository/postgres/member"
	memorialrepo "giapha-go/internal/repository/postgres/memorial"
	newsrepo "giapha-go/internal/repository/postgres/news"
	settingsrepo "giapha-go/internal/repository/postgres/settings"
	statsrepo "giapha-go/internal/repository/postgres/stats"
	redisrepo "giapha-go/internal/repository/redis"
	miniostorage "giapha-go/internal/storage/minio"
	"giapha-go/internal/transport/httpserver"
	"giapha-go/internal/transport/httpserver/handler"
	"giapha-go/internal/transport/httpserver/middleware"
	"giapha-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

// LoadConfig reads the environment (and .env) and validates the result.
func LoadConfig(log logger.Logger) (config.Config, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: dbConn}

	if cfg.DB.AutoMigrate {
		applied, err := db.Migrate(dbConn, log)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("db: migrations done", "applied", applied)
	}

	var membersCache treedomain.Cache = inmemory.NewInMemoryMembersCache()
	var attempts accountdomain.AttemptStore = inmemory.NewInMemoryAttemptStore()
	if cfg.Redis.Enabled {
		log.Info("app: initializing redis", "addr", cfg.Redis.Addr)
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.redis = client
		membersCache = redisrepo.NewMembersCache(client, cfg.Redis.KeyPrefix, log)
		attempts = redisrepo.NewAttemptStore(client, cfg.Redis.KeyPrefix)
	}

	// album.Service checks for a nil interface, so a disabled store stays untyped.
	var storage albumdomain.Storage
	if cfg.Storage.Enabled {
		log.Info("app: initializing object storage", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
		store, err := miniostorage.New(ctx, cfg.Storage)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		storage = store
	}

	memberRepo := memberrepo.NewPostgres(dbConn)
	treeService := treedomain.NewServiceWithCache(memberRepo, membersCache, cfg.TreeCache.TTL)
	memberService := memberdomain.NewServiceWithListener(memberRepo, treeService)
	accountService := NewAccountService(cfg, dbConn, attempts)
	fundService := funddomain.NewService(fundrepo.NewPostgres(dbConn), memberService)

	services := handler.Services{
		Members:   memberService,
		Tree:      treeService,
		Accounts:  accountService,
		Memorials: memorialdomain.NewService(memorialrepo.NewPostgres(dbConn), memberService),
		News:      newsdomain.NewService(newsrepo.NewPostgres(dbConn)),
		Albums:    albumdomain.NewService(albumrepo.NewPostgres(dbConn), storage, cfg.Storage.MaxUploadSize, log),
		Fund:      fundService,
		Settings:  settingsdomain.NewService(settingsrepo.NewPostgres(dbConn)),
		Stats:     statsdomain.NewService(statsrepo.NewPostgres(dbConn), fundService),
	}

	if err := bootstrapAdmin(ctx, cfg.Auth, accountService, log); err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handler.New(services, log), accountService, middleware.NewMetrics(), log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

// NewAccountService builds the account service over postgres with the given
// attempt store.
func NewAccountService(cfg config.Config, dbConn *gorm.DB, attempts accountdomain.AttemptStore) *accountdomain.Service {
	return accountdomain.NewService(
		accountrepo.NewPostgres(dbConn),
		attempts,
		accountdomain.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		accountdomain.Options{
			MaxAttempts:   cfg.Auth.MaxAttempts,
			LockoutWindow: cfg.Auth.LockoutWindow,
			BcryptCost:    cfg.Auth.BcryptCost,
		},
	)
}

func bootstrapAdmin(ctx context.Context, cfg config.AuthConfig, accounts *accountdomain.Service, log logger.Logger) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := accounts.Create(ctx, accountdomain.CreateInput{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Role:     accountdomain.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info("app: bootstrap admin created", "username", cfg.AdminUsername)
		return nil
	case errors.Is(err, accountdomain.ErrUsernameTaken):
		return nil
	default:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
