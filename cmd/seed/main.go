// Seed fills the database with a small demo fleet: a few travelers, a few
// verified mechanics, and one pending breakdown. Intended for local runs.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"roadassist/internal/config"
	"roadassist/internal/database"
	"roadassist/internal/domain"
	"roadassist/internal/logging"
	"roadassist/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	mechanics := repository.NewMechanicRepository(db)
	requests := repository.NewRequestRepository(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	admin := &domain.User{
		FirstName:    "Ada",
		LastName:     "Admin",
		Email:        "admin@roadassist.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	mustCreateUser(ctx, users, admin, log)

	traveler := &domain.User{
		FirstName:    "Tom",
		LastName:     "Traveler",
		Email:        "tom@roadassist.local",
		Phone:        "+1-555-0101",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	mustCreateUser(ctx, users, traveler, log)

	shops := []struct {
		first, last, email, shop string
		years                    int
		skills                   []string
		lat, lng                 float64
	}{
		{"Mia", "Torres", "mia@roadassist.local", "Torres Roadside", 8,
			[]string{"towing", "battery", "tires"}, 40.7580, -73.9855},
		{"Lev", "Osei", "lev@roadassist.local", "Osei Mobile Repair", 12,
			[]string{"engine", "electrical", "diagnostics"}, 40.7484, -73.9857},
	}
	for _, s := range shops {
		u := &domain.User{
			FirstName:    s.first,
			LastName:     s.last,
			Email:        s.email,
			PasswordHash: string(hash),
			Role:         domain.RoleMechanic,
		}
		mustCreateUser(ctx, users, u, log)

		p := &domain.MechanicProfile{
			UserID:            u.ID,
			ShopName:          s.shop,
			YearsOfExperience: s.years,
			Skills:            s.skills,
			IsAvailable:       true,
			IsVerified:        true,
			Location:          &domain.GeoPoint{Latitude: s.lat, Longitude: s.lng},
		}
		if err := mechanics.Create(ctx, p); err != nil {
			log.Error("seed mechanic failed", "email", s.email, "err", err)
			os.Exit(1)
		}
	}

	req := &domain.ServiceRequest{
		UserID:      traveler.ID,
		Reference:   uuid.NewString(),
		Title:       "Flat tire on I-95",
		Description: "Front left tire blew out, no spare",
		IssueType:   "tires",
		Priority:    domain.PriorityHigh,
		VehicleInfo: domain.VehicleInfo{Make: "Toyota", Model: "Camry", Year: 2019},
		Location: domain.GeoPoint{
			Latitude:  40.7549,
			Longitude: -73.9840,
			Address:   "I-95 northbound, mile 42",
		},
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := requests.Create(ctx, req); err != nil {
		log.Error("seed request failed", "err", err)
		os.Exit(1)
	}

	log.Info("seed complete",
		"users", 2+len(shops),
		"mechanics", len(shops),
		"requests", 1,
	)
}

func mustCreateUser(ctx context.Context, users *repository.UserRepository, u *domain.User, log *slog.Logger) {
	if err := users.Create(ctx, u); err != nil {
		log.Error("seed user failed", "email", u.Email, "err", err)
		os.Exit(1)
	}
}
