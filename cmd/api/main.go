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

	"github.com/go-kanban-api/internal/config"
	"github.com/go-kanban-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-kanban-api/internal/infrastructure/jwt"
	s3infra "github.com/go-kanban-api/internal/infrastructure/s3"
	"github.com/go-kanban-api/internal/infrastructure/smtp"
	"github.com/go-kanban-api/internal/infrastructure/sns"
	transporthttp "github.com/go-kanban-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — without keys only cookie identity works).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for board background images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer for invitation emails.
	mailer := smtp.NewMailer(cfg)

	// SNS invite-event publisher (optional — graceful fallback).
	var events sns.EventPublisher
	if pub, err := sns.NewPublisher(cfg); err == nil {
		events = pub
	} else {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		BoardRepo:        dynamo.NewBoardRepo(dynamoClient, cfg.DynamoTables.Boards),
		ColumnRepo:       dynamo.NewColumnRepo(dynamoClient, cfg.DynamoTables.Columns),
		CardRepo:         dynamo.NewCardRepo(dynamoClient, cfg.DynamoTables.Cards),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		InviteTokenRepo:  dynamo.NewInviteTokenRepo(dynamoClient, cfg.DynamoTables.InviteTokens),
		S3Store:          s3Store,
		Mailer:           mailer,
		Events:           events,
		JWTProvider:      jwtProvider,
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
