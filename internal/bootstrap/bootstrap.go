// Package bootstrap 把配置变成一套装配好的依赖，两个入口（用户端/管理端）共用。
package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"estate-api/internal/core/auth"
	"estate-api/internal/core/cache"
	"estate-api/internal/core/config"
	"estate-api/internal/core/database"
	"estate-api/internal/core/mail"
	"estate-api/internal/core/server"
	"estate-api/internal/repo"
	"estate-api/internal/service"
	"estate-api/internal/transport/http/handler"
	"estate-api/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // 未配置 redis 时为 nil
	JWT   *auth.JWTer

	Users        *service.Users
	Integrity    *service.Integrity
	Moderation   *service.Moderation
	Listings     *service.Listings
	Chats        *service.Chats
	Testimonials *service.Testimonials
	Reset        *service.PasswordReset
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
}

// New 打开数据库（按配置自动迁移）、可选 redis，并组装全部服务
func New(cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	closers := []func(){func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
		l.Info("automigrate done")
	}

	a := &App{Cfg: cfg, Log: l, DB: db}
	store := repo.NewStore(db)

	profiles := service.NewStoreProfiles(store)
	if cfg.Redis.Addr != "" {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		closers = append(closers, func() { _ = a.Cache.Close() })
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.Cache.Ping(ctx); err != nil {
			// 连不上也照常启动，读资料时直接回源
			l.Warn("redis unreachable, profile cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		ttl := time.Duration(cfg.Cache.ProfileTTLSec) * time.Second
		profiles = service.NewCachedProfiles(profiles, a.Cache, ttl, l.Named("profiles"))
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	a.Integrity = service.NewIntegrity(store, profiles, l, cfg.Integrity.Transactional)
	a.Users = service.NewUsers(store, profiles, l)
	a.Moderation = service.NewModeration(store, a.Integrity, l)
	a.Listings = service.NewListings(store, profiles)
	a.Chats = service.NewChats(store, profiles, l)
	a.Testimonials = service.NewTestimonials(store, profiles)
	a.Reset = service.NewPasswordReset(store, mail.NewLogMailer(l), cfg.App.ClientURL,
		time.Duration(cfg.Reset.TokenTTLMin)*time.Minute, l)
	return a, cleanup, nil
}

// Registry 用户端和管理端模块都登记在这里，引擎按接口各取所需
func (a *App) Registry() *router.Registry {
	l := a.Log.Named("http")
	return router.NewRegistry(
		handler.Auth{Users: a.Users, Reset: a.Reset, JWT: a.JWT, SecureCookie: a.Cfg.App.Env == "prod", Log: l},
		handler.Users{Users: a.Users, Integrity: a.Integrity, Chats: a.Chats, Log: l},
		handler.Posts{Listings: a.Listings, Moderation: a.Moderation, Integrity: a.Integrity, Log: l},
		handler.Chats{Chats: a.Chats, Integrity: a.Integrity, Log: l},
		handler.Testimonials{Testimonials: a.Testimonials, Log: l},
		handler.Admin{Users: a.Users, Moderation: a.Moderation, Integrity: a.Integrity, Log: l},
	)
}

func (a *App) RouterDeps() router.Deps {
	mode := "debug"
	switch a.Cfg.App.Env {
	case "prod":
		mode = "release"
	case "test":
		mode = "test"
	}
	return router.Deps{
		Log:      a.Log,
		JWT:      a.JWT,
		Server:   server.Options{Mode: mode, AllowOrigins: a.Cfg.CORS.AllowOrigins},
		Registry: a.Registry(),
	}
}
