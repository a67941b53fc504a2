package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/controller"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/events"
	"github.com/nbakri/tmregistry/internal/registry/handlers"
	"github.com/nbakri/tmregistry/internal/registry/report"
	"github.com/nbakri/tmregistry/internal/registry/sequencer"
	"github.com/nbakri/tmregistry/internal/registry/storage"
	"github.com/nbakri/tmregistry/internal/registry/sweep"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort      int                  `yaml:"HTTP_PORT"`
	DBHost        string               `yaml:"DB_HOST"`
	DBPort        int                  `yaml:"DB_PORT"`
	DBUser        string               `yaml:"DB_USER"`
	DBPassword    string               `yaml:"DB_PASSWORD"`
	DBName        string               `yaml:"DB_NAME"`
	DBSSLMode     string               `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string             `yaml:"KAFKA_BROKERS"`
	Topic         string               `yaml:"TOPIC"`
	JWTSecret     string               `yaml:"JWT_SECRET"`
	StorageRoot   string               `yaml:"STORAGE_ROOT"`
	SweepMinutes  int                  `yaml:"SWEEP_INTERVAL_MINUTES"`
	Users         []handlers.StaffUser `yaml:"USERS"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	files, err := storage.NewStore(cfg.StorageRoot)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	seq := sequencer.New(repo, logger)
	reports := report.NewGenerator(repo)
	svc := controller.NewService(repo, seq, reports, producer, logger)

	handler := handlers.NewHandler(svc, repo, files, cfg.JWTSecret, cfg.Users, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler.Router(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweep.New(svc, time.Duration(cfg.SweepMinutes)*time.Minute, logger).Run(ctx)

	go func() {
		logger.Info("HTTP server listening", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	waitForShutdown(server, cancel, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "registry", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase initializes the database connection settings.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then
// stops the sweeper and drains the HTTP server.
func waitForShutdown(server *http.Server, cancel context.CancelFunc, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	ctx, release := context.WithTimeout(context.Background(), 10*time.Second)
	defer release()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down HTTP server", zap.Error(err))
	}
	logger.Info("server stopped properly")
}
