// Command devtoken mints bearer tokens for local development. Tokens are
// signed with the configured secret, so the API accepts them as if the
// identity service had issued them.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"informatch/internal/config"
	"informatch/internal/database"
	"informatch/internal/middleware"
	"informatch/internal/models"

	"github.com/google/uuid"
)

func main() {
	userFlag := flag.String("user", "", "User ID (UUID). A new one is generated when empty")
	username := flag.String("username", "", "Look the user up by profile username instead")
	email := flag.String("email", "", "Email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("devtoken is disabled in production")
	}

	var userID uuid.UUID
	switch {
	case *username != "":
		db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		var profile models.Profile
		if err := db.Where("username = ?", *username).First(&profile).Error; err != nil {
			log.Fatalf("No profile named %q: %v", *username, err)
		}
		userID = profile.UserID
		if *email == "" {
			*email = *username + "@students.example.edu"
		}
	case *userFlag != "":
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			log.Fatalf("Invalid -user: %v", err)
		}
	default:
		userID = uuid.New()
	}

	verifier := middleware.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	token, err := verifier.Issue(userID, *email, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	log.Printf("user=%s expires_in=%s", userID, *ttl)
	fmt.Println(token)
}
