package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basti-service/config"
	"basti-service/internal/migrate"
	"basti-service/internal/repository"
	"basti-service/internal/service"
	transport "basti-service/internal/transport/http"
	"basti-service/pkg/database"
	"basti-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := migrate.MigrateCoreDB(context.Background(), db, log, migrate.DefaultMigrateOptions()); err != nil {
			log.Fatal("Миграция не применилась", zap.Error(err))
		}
	}

	repos := repository.New(db)

	catalogSvc := service.NewCatalogService(repos)
	cartSvc := service.NewCartService(repos)

	// Event bus is optional for now (nil disables publishing)
	orderSvc := service.NewOrderService(repos, nil)

	router := transport.Router(catalogSvc, cartSvc, orderSvc, log)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting Basti HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down Basti HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
	log.Info("Basti HTTP server stopped gracefully")
}
