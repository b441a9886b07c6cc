package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/google"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := loadSeed(db, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	cache := initViewCache(cfg, redisClient, &logger)
	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, &logger)

	sheetsService := initGoogleSheets(cfg, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		sheetsWorker := worker.NewSheetsWorker(db, sheetsService, redisClient, worker.RetryPolicy{}, nil)
		go sheetsWorker.Start(ctx)
		syncWorker = sheetsWorker
	}

	clock := service.SystemClock()
	bookingService := service.NewBookingService(db, eventBus, syncWorker, cache, clock, &logger)
	itemService := service.NewItemService(db, eventBus, cache, clock, &logger)
	userService := service.NewUserService(db, &logger)
	requestService := service.NewRequestService(db, &logger)

	exporter := export.NewExporter(cfg.Exports.Path, &logger)

	httpServer := api.NewServer(
		cfg.Server, cfg.API,
		bookingService, itemService, userService, requestService,
		exporter, cache, &logger,
	)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadSeed наполняет пустую базу стартовыми пользователями и вещами.
// Файл не обязателен и нужен для локальной разработки.
func loadSeed(db *database.DB, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		return nil
	}

	seedData, err := os.ReadFile(seedPath)
	if err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("read seed")
		return err
	}

	var seed struct {
		Users []models.User `yaml:"users"`
		Items []models.Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(seedData, &seed); err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("parse seed")
		return err
	}

	ctx := context.Background()
	for i := range seed.Users {
		if err := db.CreateUser(ctx, &seed.Users[i]); err != nil {
			logger.Warn().Err(err).Str("email", seed.Users[i].Email).Msg("seed user skipped")
		}
	}
	for i := range seed.Items {
		if err := db.CreateItem(ctx, &seed.Items[i]); err != nil {
			logger.Warn().Err(err).Str("name", seed.Items[i].Name).Msg("seed item skipped")
		}
	}

	logger.Info().Int("users", len(seed.Users)).Int("items", len(seed.Items)).Msg("seed loaded")
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initViewCache wires the redis cache with an in-memory fallback; without
// redis the in-memory cache serves alone.
func initViewCache(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.ViewCache {
	ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = models.DefaultCacheTTL
	}

	memory := repository.NewMemoryViewCache(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverViewCache(repository.NewRedisViewCache(redisClient, ttl), memory, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if !cfg.Google.Enabled {
		return nil
	}

	sheetsService, err := google.NewSheetsService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

// subscribeEvents пишет доменные события в журнал; внешние потребители
// подключаются здесь же.
func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	eventLogger := logger.With().Str("component", "events").Logger()
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentCreated,
	} {
		et := eventType
		bus.Subscribe(et, func(event *events.Event) error {
			eventLogger.Info().Str("type", et).RawJSON("payload", event.Payload).Msg("Domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9091
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
