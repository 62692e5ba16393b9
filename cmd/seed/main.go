// Command seed creates a demo account for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"yookye/backend/internal/config"
	"yookye/backend/internal/db"
	"yookye/backend/internal/security"
	traveldomain "yookye/backend/internal/travel/domain"
	travelrepo "yookye/backend/internal/travel/repository"
	userdomain "yookye/backend/internal/user/domain"
	userrepo "yookye/backend/internal/user/repository"
)

const (
	demoEmail    = "demo@yookye.com"
	demoPassword = "demo-password-1"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set; seeding needs a database")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	users := userrepo.NewPostgresRepository(sqlDB)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := users.GetByEmail(ctx, demoEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Println("demo user already exists:", demoEmail)
		return nil
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(demoPassword))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.NewString(),
		Email:        demoEmail,
		PasswordHash: hash,
		Name:         "Demo User",
		Username:     "demo",
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	travels := travelrepo.NewPostgresRepository(sqlDB)
	sample := &traveldomain.TravelRequest{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Form: traveldomain.Form{
			Passions:      []string{"food_and_wine", "culture_and_history"},
			PlacesToVisit: "Toscana",
			Travelers:     traveldomain.Travelers{Adults: 2, Rooms: 1},
			Dates:         traveldomain.Dates{CheckIn: now.AddDate(0, 1, 0).Format("2006-01-02")},
			Budget:        "1000-2000",
			ContactEmail:  demoEmail,
		},
		Status:    traveldomain.StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := travels.Create(ctx, sample); err != nil {
		return err
	}
	fmt.Println("created demo user:", demoEmail)
	return nil
}
