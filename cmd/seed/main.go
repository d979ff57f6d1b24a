package main

import (
	"log"
	"os"

	"peerlearn-be/internal/model"
	"peerlearn-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a demo dataset for local development: one admin and a handful of
// verified users with teach/learn skills. Safe to re-run; existing emails
// are skipped.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding PeerLearn demo data\n")

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Failed to hash seed password: %v", err)
		os.Exit(1)
	}
	hash := string(hashBytes)

	type seedUser struct {
		Email    string
		FullName string
		Bio      string
		Role     string
		Skills   []model.UserSkill
	}

	users := []seedUser{
		{
			Email:    "admin@peerlearn.local",
			FullName: "Platform Admin",
			Role:     "admin",
		},
		{
			Email:    "alice@peerlearn.local",
			FullName: "Alice Tan",
			Bio:      "CS senior, happy to walk through algorithms and Go.",
			Role:     "user",
			Skills: []model.UserSkill{
				{Name: "Go", Category: "technology", Kind: "teach", Level: "advanced"},
				{Name: "Algorithms", Category: "technology", Kind: "teach", Level: "advanced"},
				{Name: "Spanish", Category: "languages", Kind: "learn"},
			},
		},
		{
			Email:    "bruno@peerlearn.local",
			FullName: "Bruno Silva",
			Bio:      "Math tutor, calculus and linear algebra.",
			Role:     "user",
			Skills: []model.UserSkill{
				{Name: "Calculus", Category: "academics", Kind: "teach", Level: "advanced"},
				{Name: "Linear Algebra", Category: "academics", Kind: "teach", Level: "intermediate"},
			},
		},
		{
			Email:    "chen@peerlearn.local",
			FullName: "Chen Wei",
			Bio:      "Learning programming, can help with Mandarin.",
			Role:     "user",
			Skills: []model.UserSkill{
				{Name: "Mandarin", Category: "languages", Kind: "teach", Level: "native"},
				{Name: "Go", Category: "technology", Kind: "learn"},
			},
		},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.Email)
			continue
		} else if err != gorm.ErrRecordNotFound {
			color.Red("Lookup failed for '%s': %v", u.Email, err)
			continue
		}

		row := model.User{
			Email:         u.Email,
			PasswordHash:  &hash,
			FullName:      u.FullName,
			Bio:           u.Bio,
			Role:          u.Role,
			Status:        "active",
			EmailVerified: true,
		}
		if err := db.Create(&row).Error; err != nil {
			color.Red("Failed to create '%s': %v", u.Email, err)
			continue
		}

		for _, s := range u.Skills {
			s.UserId = row.Id
			if err := db.Create(&s).Error; err != nil {
				color.Red("Failed to create skill '%s' for '%s': %v", s.Name, u.Email, err)
			}
		}
		color.Green("Created user: %s (%s)", u.FullName, u.Email)
	}

	color.Cyan("\n✅ Seeding completed")
}
