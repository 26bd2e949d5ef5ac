package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/farmbora/farmbora-api/internal/config"
	"github.com/farmbora/farmbora-api/internal/database"
	"github.com/farmbora/farmbora-api/internal/handler"
	"github.com/farmbora/farmbora-api/internal/middleware"
	"github.com/farmbora/farmbora-api/internal/queue"
	"github.com/farmbora/farmbora-api/internal/repository"
	"github.com/farmbora/farmbora-api/internal/router"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database migrate: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	farmers := repository.NewFarmerProfileRepo(db)
	buyers := repository.NewBuyerProfileRepo(db)
	listings := repository.NewListingRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	farmerHandler := handler.NewFarmerProfileHandler(farmers)
	buyerHandler := handler.NewBuyerProfileHandler(buyers)
	listingHandler := handler.NewListingHandler(listings, farmers)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, limiter)
	router.RegisterProtected(e, farmerHandler, buyerHandler, listingHandler, cfg.JWTSecret, cache)

	// Background consumer mirrors published listing events into a log file.
	go func() {
		if err := queue.StartListingConsumer(); err != nil {
			log.Printf("listing consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
