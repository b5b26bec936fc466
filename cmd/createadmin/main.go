// createadmin 创建管理员账号；同名用户已存在时提升为管理员（并可重设密码）。
//
//	go run ./cmd/createadmin -username root -email root@example.com -password secret
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"estate-api/internal/bootstrap"
	"estate-api/internal/core/config"
	"estate-api/internal/core/logger"
	"estate-api/internal/service"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email (required when creating)")
	password := flag.String("password", "", "admin password (required when creating)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	if *username == "" {
		log.Fatal("-username is required")
	}

	app, closeApp, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeApp()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	u, created, err := app.Users.EnsureAdmin(ctx, service.RegisterInput{
		Username: *username, Email: *email, Password: *password,
	})
	if err != nil {
		log.Fatal("create admin failed", zap.Error(err))
	}
	log.Info("admin ready", zap.String("id", u.ID), zap.String("username", u.Username), zap.Bool("created", created))
}
