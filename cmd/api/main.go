package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/accounts-backend/internal/adapter/handler"
	"github.com/marcos-nsantos/accounts-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/cache"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/database"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/observability"
	"github.com/marcos-nsantos/accounts-backend/internal/infrastructure/server"
	authUC "github.com/marcos-nsantos/accounts-backend/internal/usecase/auth"
	userUC "github.com/marcos-nsantos/accounts-backend/internal/usecase/user"
)

//	@title						Accounts API
//	@version					1.0
//	@description				User registration, authentication and account management.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsPath)
		if err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Strings("versions", applied))
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Enabled {
		var redisClient *redis.Client
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		if cfg.RateLimit.Enabled {
			rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, logger)
		}
	} else if cfg.RateLimit.Enabled {
		logger.Warn("rate limiting needs redis; running without it")
	}

	// Repositories
	userRepo := postgres.NewUserRepo(pool)
	refreshTokenRepo := postgres.NewRefreshTokenRepo(pool)

	// Infrastructure services
	jwtSvc := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	passwordHasher := auth.NewPasswordHasher(cfg.Password.BcryptCost)

	// Use cases
	authSvc := authUC.NewService(userRepo, refreshTokenRepo, jwtSvc, passwordHasher, cfg.JWT.RefreshTokenTTL)
	userSvc := userUC.NewService(userRepo, refreshTokenRepo, passwordHasher)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc, authSvc)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		Database:       pool,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	})

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Handler:         router.Engine(),
		Logger:          logger,
	})

	if cfg.JWT.CleanupInterval > 0 {
		go purgeRefreshTokens(ctx, authSvc, cfg.JWT.CleanupInterval, logger)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func purgeRefreshTokens(ctx context.Context, authSvc *authUC.Service, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authSvc.PurgeRefreshTokens(ctx)
			if err != nil {
				logger.Error("purging refresh tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged refresh tokens", zap.Int64("count", n))
			}
		}
	}
}
