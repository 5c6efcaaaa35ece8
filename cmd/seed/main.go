package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"authgate/internal/config"
	"authgate/internal/db"
	"authgate/internal/model"
	"authgate/internal/repository"
)

const (
	adminName     = "admin1"
	adminEmail    = "admin@gmail.com"
	adminPassword = "12345678"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.AccessToken{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)

	exists, err := users.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("Failed to check admin account: %v", err)
	}
	if exists {
		log.Printf("Admin account %s already exists, nothing to do", adminEmail)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &model.User{
		Name:         adminName,
		Email:        adminEmail,
		PasswordHash: string(hashed),
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Seeded admin account %s (id=%d)", adminEmail, admin.ID)
}
