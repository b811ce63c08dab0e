package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/clerky/website/internal/config"
	"github.com/clerky/website/internal/handler"
	"github.com/clerky/website/internal/repository"
	"github.com/clerky/website/internal/router"
	"github.com/clerky/website/internal/service"
	"github.com/clerky/website/pkg/database"
	"github.com/clerky/website/pkg/logger"
	"github.com/clerky/website/pkg/payment"
	"github.com/clerky/website/pkg/utils"
)

func main() {
	// .env is optional; deployments pass real environment variables.
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if envErr != nil {
		zl.Info("no .env file loaded, using process environment", zap.Error(envErr))
	}

	// Translations
	translationService := service.LoadTranslations(cfg.Site.TranslationsPath, zl)

	// MongoDB (connected on first checkout)
	mongo := database.NewMongo(cfg.MongoDB.URI)
	imageRepo := repository.NewImageRepository(mongo, cfg.MongoDB.Database, cfg.MongoDB.Collection)

	// Asaas
	asaasService := payment.NewAsaasService(cfg.Asaas.APIURL, cfg.Asaas.AccessToken)
	checkoutService := service.NewCheckoutService(asaasService, imageRepo, cfg.Asaas.SubscriptionValue, zl)

	validator := utils.NewValidator()

	// Handlers
	pageHandler := handler.NewPageHandler(cfg.Site.PublicDir, zl)
	translationHandler := handler.NewTranslationHandler(translationService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validator, zl)

	app := router.NewFiberApp(router.Options{
		PublicDir:         cfg.Site.PublicDir,
		AssetsDir:         cfg.Site.AssetsDir,
		AllowOrigins:      cfg.CORS.AllowOrigins,
		CheckoutRateLimit: cfg.CheckoutRateLimit,
	}, router.Handlers{
		Page:        pageHandler,
		Translation: translationHandler,
		Checkout:    checkoutHandler,
	}, zl)

	go func() {
		zl.Info("Clerky website server running",
			zap.String("addr", "http://localhost:"+cfg.Port),
			zap.Strings("languages", translationService.Languages()),
			zap.String("publicDir", cfg.Site.PublicDir),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongo.Disconnect(ctx); err != nil {
		zl.Error("mongodb disconnect failed", zap.Error(err))
	}
}
