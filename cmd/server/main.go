package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gymhero/training-api/internal/api"
	"gymhero/training-api/internal/config"
	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/logger"
	"gymhero/training-api/internal/security"
	"gymhero/training-api/internal/service"
	"gymhero/training-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	stdlog "github.com/rs/zerolog/log"
)

// @title GymHero Training API
// @version 1.0
// @description API for managing exercises, training units and training plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		stdlog.Fatal().Err(err).Msg("could not load config")
	}

	log := logger.New(cfg.Log)
	log.Info().Str("env", cfg.Env).Str("driver", cfg.Database.Driver).Msg("starting GymHero server")
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}
	defer closeStore()
	log.Info().Msg("database connection established")

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage = storage.Disabled{}
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
	}

	// --- Initialize Services ---
	codec, err := security.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid jwt configuration")
	}
	hasher := security.NewBcryptHasher(cfg.Password.BcryptCost)

	services := api.Services{
		Auth:  service.NewAuthService(store.Users, codec, hasher, cfg.JWT.Expiration, log),
		Users: service.NewUserService(store.Users, hasher, log),
		Levels: service.NewReferenceService(store.Levels, "Level",
			func(name string) *domain.Level { return &domain.Level{Name: name} }, log),
		BodyParts: service.NewReferenceService(store.BodyParts, "Body part",
			func(name string) *domain.BodyPart { return &domain.BodyPart{Name: name} }, log),
		ExerciseTypes: service.NewReferenceService(store.ExerciseTypes, "Exercise type",
			func(name string) *domain.ExerciseType { return &domain.ExerciseType{Name: name} }, log),
		Exercises:     service.NewExerciseService(store, fileStorage, cfg.S3.PresignExpiry, log),
		TrainingUnits: service.NewTrainingUnitService(store, log),
		TrainingPlans: service.NewTrainingPlanService(store, log),
	}

	if cfg.Superuser.Enabled() {
		bootstrapSuperuser(ctx, services.Users, cfg.Superuser, log)
	}

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(log, services),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ListenAndServe error")
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}
	log.Info().Msg("server exited")
}

func bootstrapSuperuser(ctx context.Context, users service.UserService, cfg config.SuperuserConfig, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created, err := users.EnsureSuperuser(ctx, cfg.Email, cfg.Password, cfg.FullName)
	if err != nil {
		log.Fatal().Err(err).Str("email", cfg.Email).Msg("failed to create first superuser")
	}
	if created {
		log.Info().Str("email", cfg.Email).Msg("first superuser created")
	}
}
