package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/service"
)

// Seeds the initial admin account from ADMIN_EMAIL / ADMIN_PASSWORD. Role
// changes require an existing admin, so the first one has to come from here.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewUserRepository(gormDB)

	email := service.NormalizeEmail(cfg.AdminEmail)
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin account %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check admin account: %v", err)
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &model.User{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account %s created with id %s", email, admin.ID)
}
