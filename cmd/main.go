package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fathima-sithara/bootcamp-api/internal/auth"
	"github.com/fathima-sithara/bootcamp-api/internal/config"
	"github.com/fathima-sithara/bootcamp-api/internal/database"
	"github.com/fathima-sithara/bootcamp-api/internal/geocoder"
	"github.com/fathima-sithara/bootcamp-api/internal/handlers"
	"github.com/fathima-sithara/bootcamp-api/internal/mailer"
	"github.com/fathima-sithara/bootcamp-api/internal/middleware"
	"github.com/fathima-sithara/bootcamp-api/internal/repository"
	"github.com/fathima-sithara/bootcamp-api/internal/routes"
	"github.com/fathima-sithara/bootcamp-api/internal/server"
	"github.com/fathima-sithara/bootcamp-api/internal/services"
	"github.com/fathima-sithara/bootcamp-api/internal/storage"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()
	sugar.Infof("Starting bootcamp-api in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	ctx := context.Background()

	db, mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Warnf("Redis unavailable, auth rate limiting disabled: %v", err)
		rdb = nil
	}

	// collections and indexes
	bootcamps := repository.NewCollection(db, "bootcamps")
	courses := repository.NewCollection(db, "courses")
	reviews := repository.NewCollection(db, "reviews")
	usersCol := repository.NewCollection(db, "users")
	userRepo, err := repository.NewMongoUserRepo(ctx, db, "users")
	if err != nil {
		sugar.Warnf("user index creation failed: %v", err)
	}

	if err := ensureIndexes(ctx, bootcamps, reviews); err != nil {
		sugar.Warnf("index creation failed: %v", err)
	}

	// external collaborators
	mail := mailer.NewBrevo(cfg.Mailer.APIKey, cfg.Mailer.FromEmail, cfg.Mailer.FromName)
	if !mail.IsConfigured() {
		sugar.Warn("Mailer not fully configured, reset-password emails will fail.")
	}
	geo := geocoder.NewMapQuest(cfg.Geocoder.APIKey)
	if !geo.IsConfigured() {
		sugar.Warn("Geocoder not configured, bootcamp addresses are stored as-is.")
	}

	var uploads storage.Uploader
	if cfg.AWS.Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
		if err != nil {
			sugar.Fatalf("S3 storage init failed: %v", err)
		}
		uploads = s3Store
	} else {
		sugar.Warn("AWS bucket not configured, photo uploads will fail.")
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTExpire)
	authSvc := services.NewAuthService(userRepo, tokens, mail, sugar)

	deps := routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Bootcamps: handlers.NewBootcampHandler(bootcamps, courses, geo, uploads, cfg.Upload.MaxBytes, sugar),
		Courses:   handlers.NewCourseHandler(courses, bootcamps),
		Reviews:   handlers.NewReviewHandler(reviews, bootcamps),
		Users:     handlers.NewUserHandler(userRepo, usersCol),
		Protect:   middleware.Protect(tokens, userRepo),
	}
	if rdb != nil {
		limiter := middleware.NewRateLimiter(rdb, "auth_rl", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		deps.AuthLimit = limiter.ByIP()
	}

	app := server.New(cfg, logger)
	routes.Setup(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutCtx); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(shutCtx); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			sugar.Errorf("Redis client close error: %v", err)
		}
	}
	sugar.Info("Graceful shutdown complete.")
}

func ensureIndexes(ctx context.Context, bootcamps, reviews *repository.Collection) error {
	if err := bootcamps.EnsureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}
	return reviews.EnsureIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
