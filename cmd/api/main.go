package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/mfranzen/cadence/internal/adapters/cache"
	adapterHTTP "github.com/mfranzen/cadence/internal/adapters/handler/http"
	"github.com/mfranzen/cadence/internal/adapters/repository"
	"github.com/mfranzen/cadence/internal/core/domain"
	"github.com/mfranzen/cadence/internal/core/services"
	"github.com/mfranzen/cadence/internal/core/workers"
	"github.com/mfranzen/cadence/internal/seed"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	serverPort := envOr("PORT", "8080")
	jwtSecret := envOr("JWT_SECRET", "")
	jwtIssuer := envOr("JWT_ISSUER", "cadence")

	tokenLifetime := 24 * time.Hour
	if raw := os.Getenv("TOKEN_LIFETIME_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			log.Fatalf("Critical: invalid TOKEN_LIFETIME_HOURS %q", raw)
		}
		tokenLifetime = time.Duration(hours) * time.Hour
	}

	if jwtSecret == "" {
		jwtSecret = "cadence-dev-secret"
		log.Println("WARNING: JWT_SECRET not set, using an insecure development secret")
	}

	var (
		db        *sqlx.DB
		habitRepo domain.HabitRepository
		userRepo  domain.UserRepository
	)

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		log.Println("DB_NAME not set, running in demo mode with in-memory storage")
		habitRepo, userRepo = setupDemoRepositories()
	} else {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			envOr("DB_HOST", "localhost"), envOr("DB_PORT", "5432"), dbName)

		log.Println("Connecting to database...")

		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		habitRepo = repository.NewPostgresHabitRepository(db)
		userRepo = repository.NewPostgresUserRepository(db.DB)
	}

	var redisClient *redis.Client
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisDB := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				log.Fatalf("Critical: invalid REDIS_DB %q", raw)
			}
			redisDB = n
		}

		var err error
		redisClient, err = cache.NewRedisClient(redisHost, envOr("REDIS_PORT", "6379"), os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		log.Println("Redis connected successfully.")

		habitRepo = repository.NewCachedHabitRepository(habitRepo, redisClient)
	} else {
		log.Println("REDIS_HOST not set, caching and rate limiting disabled")
	}

	streakWorker := workers.NewStreakWorker(habitRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	streakWorker.Start(workerCtx)

	habitService := services.NewHabitService(habitRepo, streakWorker)
	statsService := services.NewStatsService(habitRepo)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, tokenLifetime, userRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:  adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler: adapterHTTP.NewHabitHandler(habitService),
		StatsHandler: adapterHTTP.NewStatsHandler(statsService),
		TokenService: tokenService,
		DB:           db,
		Redis:        redisClient,
		StartTime:    startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Cadence API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

// setupDemoRepositories seeds in-memory storage with sample habits and a
// demo account so the API is usable without any backing services.
func setupDemoRepositories() (domain.HabitRepository, domain.UserRepository) {
	habitRepo := repository.NewInMemoryHabitRepository()

	habits, err := seed.Habits()
	if err != nil {
		log.Fatalf("Critical: failed to build demo fixtures: %v", err)
	}
	habitRepo.Seed(habits)

	userRepo := repository.NewInMemoryUserRepository()

	demoUser, err := domain.NewUser(seed.DemoUserID, "demo@cadence.local")
	if err != nil {
		log.Fatalf("Critical: failed to build demo user: %v", err)
	}
	if err := demoUser.SetPassword("demo-password"); err != nil {
		log.Fatalf("Critical: failed to set demo password: %v", err)
	}
	if err := userRepo.Create(context.Background(), demoUser); err != nil {
		log.Fatalf("Critical: failed to store demo user: %v", err)
	}

	log.Printf("Demo account ready: demo@cadence.local / demo-password (%d habits seeded)", len(habits))

	return habitRepo, userRepo
}
