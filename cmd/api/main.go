package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/config"
	"github.com/realty-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/realty-api/internal/infrastructure/jwt"
	redisinfra "github.com/realty-api/internal/infrastructure/redis"
	s3infra "github.com/realty-api/internal/infrastructure/s3"
	"github.com/realty-api/internal/infrastructure/sns"
	transporthttp "github.com/realty-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// Redis cache. An unreachable cache only degrades reads, so a failed ping
	// is a warning, not a startup failure.
	redisClient := redisinfra.NewClient(cfg)
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()); err != nil {
		log.Printf("WARN: redis not reachable, serving reads from store: %v", err)
	}
	accessor := cache.NewAccessor(redisClient, nil)

	// S3 photo store (optional).
	var s3Store *s3infra.Store
	if cfg.S3BucketName != "" {
		s3Store = s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)
	} else {
		log.Println("WARN: S3_BUCKET_NAME not set, photo endpoints disabled")
	}

	// SNS SMS sender (optional).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:           dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		PropertyRepo:       dynamo.NewPropertyRepo(dynamoClient, cfg.DynamoTables.Properties),
		FavoriteRepo:       dynamo.NewFavoriteRepo(dynamoClient, cfg.DynamoTables.Favorites),
		RecommendationRepo: dynamo.NewRecommendationRepo(dynamoClient, cfg.DynamoTables.Recommendations),
		S3Store:            s3Store,
		SMSSender:          smsSender,
		JWTProvider:        jwtProvider,
		Cache:              accessor,
		CachePinger:        redisClient,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
