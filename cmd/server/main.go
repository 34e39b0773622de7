package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/adapters/event"
	httpAdapter "github.com/haiminh/geoatlas/adapters/http"
	"github.com/haiminh/geoatlas/adapters/persistence"
	accountUC "github.com/haiminh/geoatlas/internal/application/usecase/account"
	geoUC "github.com/haiminh/geoatlas/internal/application/usecase/geo"
	"github.com/haiminh/geoatlas/internal/config"
	"github.com/haiminh/geoatlas/pkg/auth"
	"github.com/haiminh/geoatlas/pkg/logger"
	"github.com/haiminh/geoatlas/pkg/tracing"
)

func main() {

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting geoatlas API server...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "geoatlas-api")
	if err != nil {
		appLogger.Warn("Tracing disabled", zap.Error(err))
	} else {
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	if err := persistence.RunMigrations(context.Background(), cfg.DB.DSN); err != nil {
		appLogger.Fatal("cannot run migrations", err)
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories and stores
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	placeRepo := persistence.NewPostgresPlaceRepo(dbPool, appLogger)
	sessionStore := persistence.NewRedisSessionStore(redisClient, cfg.Auth.SessionTTL)

	// Services
	credStore := accountUC.NewCredentialStore(userRepo, appLogger)
	resetCodec := auth.NewResetCodec(cfg.Auth.ResetSecret, cfg.Auth.ResetTTL)
	gate := httpAdapter.NewChannelGate()

	// Use Cases
	signupUseCase := accountUC.NewSignupUseCase(credStore, sessionStore, gate, appLogger)
	loginUseCase := accountUC.NewLoginUseCase(credStore, sessionStore, gate, appLogger)
	logoutUseCase := accountUC.NewLogoutUseCase(sessionStore, appLogger)
	whoAmIUseCase := accountUC.NewWhoAmIUseCase(credStore, sessionStore)
	requestResetUseCase := accountUC.NewRequestResetUseCase(credStore, kafkaClient, resetCodec, cfg.Auth.ResetTTL, appLogger)
	confirmResetUseCase := accountUC.NewConfirmResetUseCase(credStore, sessionStore, gate, appLogger)
	lookupUseCase := geoUC.NewLookupUseCase(placeRepo, cfg.Geo.MaxResults)

	// HTTP Handlers
	accountHandler := httpAdapter.NewAccountHandler(
		signupUseCase,
		loginUseCase,
		logoutUseCase,
		whoAmIUseCase,
		requestResetUseCase,
		confirmResetUseCase,
		resetCodec,
		cfg.Auth.SessionTTL,
	)
	geoHandler := httpAdapter.NewGeoHandler(lookupUseCase)

	router := httpAdapter.NewRouter(accountHandler, geoHandler, appLogger, cfg.App.TrustProxy)

	appLogger.Info("Listening", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("server stopped", err)
	}
}
