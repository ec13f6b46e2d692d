// Command admin_seed creates the read-only admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"fidelite/internal/config"
	"fidelite/internal/logger"
	"fidelite/internal/models"
	"fidelite/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Env); err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L()

	adminEmail := strings.ToLower(strings.TrimSpace(config.GetEnv("ADMIN_EMAIL", "")))
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	ctx := context.Background()
	accounts := repositories.NewAccountRepository(db)

	_, err = accounts.GetByEmail(ctx, adminEmail)
	if err == nil {
		log.Info("Admin account already exists", zap.String("email", adminEmail))
		return
	}
	if !errors.Is(err, repositories.ErrAccountNotFound) {
		log.Fatal("Failed to look up admin account", zap.Error(err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	admin := &models.Account{
		Email:        adminEmail,
		Password:     string(hashed),
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}
	if err := accounts.CreateWithProfile(ctx, admin, nil, nil); err != nil {
		log.Fatal("Failed to create admin account", zap.Error(err))
	}

	log.Info("Admin account created", zap.String("email", adminEmail))
}
