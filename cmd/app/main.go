package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"returnsync/cmd"
	"returnsync/internal/adapters/out/postgres/auditrepo"
	"returnsync/internal/adapters/out/postgres/cursorrepo"
	"returnsync/internal/adapters/out/postgres/discrepancyrepo"
	"returnsync/internal/adapters/out/postgres/returnrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	args := os.Args[1:]
	serveMode := len(args) == 1 && args[0] == "serve"

	// In CLI mode the result line must be produced on every exit path,
	// including failures before the run starts.
	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		if !serveMode {
			cmd.PrintFailureResult("failed to connect to database")
		}
		os.Exit(1)
	}
	defer closeDatabase(gormDB, logger)

	if err := migrateSchema(gormDB); err != nil {
		logger.Error("Failed to migrate schema", "error", err)
		if !serveMode {
			cmd.PrintFailureResult("failed to migrate schema")
		}
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(configs, gormDB, logger)

	if serveMode {
		startService(&root, configs, logger)
		return
	}

	code := cmd.RunSync(context.Background(), &root, args)
	closeDatabase(gormDB, logger)
	os.Exit(code)
}

func getConfigs() cmd.Config {
	// Missing .env is fine: containerized deployments pass configuration
	// through the environment directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:      os.Getenv("HTTP_PORT"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBSslMode:     os.Getenv("DB_SSLMODE"),
		CargusBaseURL: os.Getenv("CARGUS_BASE_URL"),
		CargusAPIKey:  os.Getenv("CARGUS_API_KEY"),
		CargusTimeout: os.Getenv("CARGUS_TIMEOUT"),
		CursorSource:  os.Getenv("CURSOR_SOURCE"),
		SyncCronExpr:  os.Getenv("SYNC_CRON_EXPR"),
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	return gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func closeDatabase(gormDB *gorm.DB, logger *slog.Logger) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}

func migrateSchema(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&returnrepo.ReturnDTO{},
		&returnrepo.ReturnItemDTO{},
		&auditrepo.EntryDTO{},
		&discrepancyrepo.DiscrepancyDTO{},
		&cursorrepo.CursorDTO{},
	)
}

func startService(root *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) {
	server, err := root.CreateHTTPServer()
	if err != nil {
		logger.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	jobManager, err := root.CreateJobManager()
	if err != nil {
		logger.Error("Failed to create job manager", "error", err)
		os.Exit(1)
	}

	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	server.RegisterRoutes(e)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, nethttp.ErrServerClosed) {
			logger.Error("HTTP server stopped", "error", startErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
