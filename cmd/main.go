package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/prankpay/prank-wallet/internal/engine"
	"github.com/prankpay/prank-wallet/internal/handlers"
	jwtpkg "github.com/prankpay/prank-wallet/internal/jwt"
	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/middlewares"
	"github.com/prankpay/prank-wallet/internal/repositories"
	"github.com/prankpay/prank-wallet/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title prank-wallet API
// @version 1.0.0
// @description Microservice backing the fake wallet prank: session-scoped wallets, prank timing engine and settings
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBroker, kafkaSettlementTopic, kafkaChimeTopic,
		jwtSecret, jwtExp,
		pendingMs, settlingMs, dwellMs,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaBroker, kafkaSettlementTopic, kafkaChimeTopic,
		jwtSecret, jwtExp,
		pendingMs, settlingMs, dwellMs,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, JWT and prank timing configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	kafkaBroker, kafkaSettlementTopic, kafkaChimeTopic string,
	jwtSecretKey string, jwtExpSecond int,
	pendingMs, settlingMs, dwellMs int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config
	kafkaBroker = getEnv("KAFKA_BROKER", "localhost:9092")
	kafkaSettlementTopic = getEnv("KAFKA_SETTLEMENT_TOPIC", "prank-settlements")
	kafkaChimeTopic = getEnv("KAFKA_CHIME_TOPIC", "prank-chimes")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Prank timing config
	if pendingMs, err = strconv.Atoi(getEnv("PRANK_PENDING_MS", "1500")); err != nil {
		return
	}
	if settlingMs, err = strconv.Atoi(getEnv("PRANK_SETTLING_MS", "1000")); err != nil {
		return
	}
	if dwellMs, err = strconv.Atoi(getEnv("PRANK_DWELL_MS", "1600")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka writers and HTTP
// server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaBroker, kafkaSettlementTopic, kafkaChimeTopic string,
	jwtSecretKey string, jwtExpSecond int,
	pendingMs, settlingMs, dwellMs int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writers for settlement and chime events
	settlementWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    kafkaSettlementTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer settlementWriter.Close()

	chimeWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    kafkaChimeTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer chimeWriter.Close()

	// Initialize JWT service
	tokens := jwtpkg.New(
		jwtpkg.WithSecretKey(jwtSecretKey),
		jwtpkg.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(rdb)
	configRepo := repositories.NewConfigRepository(rdb)
	auditRepo := repositories.NewAuditRepository(db)

	// Initialize services
	configService := services.NewConfigService(configRepo, walletRepo)
	timings := engine.Timings{
		Pending:  time.Duration(pendingMs) * time.Millisecond,
		Settling: time.Duration(settlingMs) * time.Millisecond,
		Dwell:    time.Duration(dwellMs) * time.Millisecond,
	}
	sessionService := services.NewSessionService(configService, walletRepo, auditRepo, settlementWriter, chimeWriter, timings)
	defer sessionService.Close()

	// Initialize handlers
	createSessionHandler := handlers.NewCreateSessionHandler(sessionService, tokens)
	deleteSessionHandler := handlers.NewDeleteSessionHandler(sessionService, tokens)
	getWalletHandler := handlers.NewGetWalletHandler(sessionService, tokens)
	triggerHandler := handlers.NewTriggerHandler(sessionService, tokens)
	confirmHandler := handlers.NewConfirmHandler(sessionService, tokens)
	resetHandler := handlers.NewResetHandler(sessionService, configService, tokens)
	getConfigHandler := handlers.NewGetConfigHandler(configService, tokens)
	saveConfigHandler := handlers.NewSaveConfigHandler(configService, sessionService, tokens)
	receiptHandler := handlers.NewReceiptHandler(configService, tokens)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/session", createSessionHandler)

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Delete("/session", deleteSessionHandler)
			r.Get("/wallet", getWalletHandler)
			r.Post("/wallet/trigger", triggerHandler)
			r.Post("/wallet/confirm", confirmHandler)
			r.Post("/wallet/reset", resetHandler)
			r.Get("/config", getConfigHandler)
			r.Put("/config", saveConfigHandler)
			r.Get("/receipt", receiptHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
