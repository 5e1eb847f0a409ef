// Command suggestions-lambda serves GET /suggestions as an AWS Lambda
// function behind API Gateway.
package main

import (
	"log"

	"informatch/internal/cache"
	"informatch/internal/config"
	"informatch/internal/database"
	"informatch/internal/functions/suggestions"
	"informatch/internal/middleware"
	"informatch/internal/repository"
	"informatch/internal/service"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Schema changes are owned by the migrate command, not by cold starts.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	rdb := cache.InitRedis(cfg.RedisURL)

	suggester := service.NewSuggestionService(
		repository.NewProfileRepository(db),
		repository.NewMatchRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewBlockRepository(db),
	)
	verifier := middleware.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	lambda.Start(suggestions.NewHandler(suggester, verifier, rdb).Handle)
}
