package app

import (
	"context"
	"errors"
	"log"

	"labstock/db"
	"labstock/models"
	"labstock/security"
)

// BootstrapFirstSuperuser creates the initial superuser from
// FIRST_SUPERUSER / FIRST_SUPERUSER_PASSWORD so a fresh deployment is
// usable. Does nothing when the account already exists.
func BootstrapFirstSuperuser(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.FirstSuperuserEmail == "" || cfg.FirstSuperuserPassword == "" {
		return
	}

	if _, err := repo.FindUserByEmail(ctx, cfg.FirstSuperuserEmail); err == nil {
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		log.Printf("bootstrap superuser lookup failed: %v", err)
		return
	}

	hash, err := security.HashPassword(cfg.FirstSuperuserPassword)
	if err != nil {
		log.Printf("bootstrap superuser hash failed: %v", err)
		return
	}
	u := &models.User{
		Email:        cfg.FirstSuperuserEmail,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap superuser create failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created first superuser %s", cfg.FirstSuperuserEmail)
}
