package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bistro/internal/config"
	"bistro/internal/db"
	"bistro/internal/model"
	"bistro/internal/repository"
)

// seedItem mirrors one entry of the menu JSON file.
type seedItem struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Availability *bool           `json:"availability"`
	Image        string          `json:"image"`
}

// Seeds the catalog from a JSON menu file and optionally provisions an admin
// account. Registration can only create customers, so this is the supported
// path to the first admin.
func main() {
	menuPath := flag.String("menu", "", "path to a JSON file of food items")
	adminUser := flag.String("admin-username", "", "username for an admin account to create")
	adminEmail := flag.String("admin-email", "", "email for the admin account")
	adminPass := flag.String("admin-password", "", "password for the admin account")
	flag.Parse()

	if *menuPath == "" && *adminUser == "" {
		log.Fatal("nothing to do: pass -menu and/or -admin-username")
	}

	cfg := config.Load()
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.FoodItem{}, &model.Order{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()

	if *adminUser != "" {
		if err := seedAdmin(ctx, gormDB, *adminUser, *adminEmail, *adminPass); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}
	if *menuPath != "" {
		count, err := seedMenu(ctx, gormDB, *menuPath)
		if err != nil {
			log.Fatalf("seed menu: %v", err)
		}
		log.Printf("seeded %d food items", count)
	}
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB, username, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("admin-email and admin-password are required with admin-username")
	}

	users := repository.NewUserRepository(gormDB)
	if _, err := users.FindByUsername(ctx, username); err == nil {
		log.Printf("admin %q already exists, skipping", username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		IsCustomer:   false,
		IsAdmin:      true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("created admin %q", username)
	return nil
}

func seedMenu(ctx context.Context, gormDB *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var entries []seedItem
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse menu file: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.Name == "" || entry.Category == "" || entry.Price.IsNegative() {
			return count, fmt.Errorf("invalid entry %q: name, category and a non-negative price are required", entry.Name)
		}
		availability := true
		if entry.Availability != nil {
			availability = *entry.Availability
		}

		item := model.FoodItem{
			Name:         entry.Name,
			Description:  entry.Description,
			Price:        entry.Price,
			Category:     entry.Category,
			Availability: availability,
			Image:        entry.Image,
		}

		// Upsert by name so reseeding refreshes prices instead of duplicating.
		var existing model.FoodItem
		err := gormDB.WithContext(ctx).Where("name = ?", entry.Name).First(&existing).Error
		switch {
		case err == nil:
			item.ID = existing.ID
			item.CreatedAt = existing.CreatedAt
			if err := gormDB.WithContext(ctx).Save(&item).Error; err != nil {
				return count, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := gormDB.WithContext(ctx).Create(&item).Error; err != nil {
				return count, err
			}
		default:
			return count, err
		}
		count++
	}
	return count, nil
}
