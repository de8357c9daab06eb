package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/external/resend"

	"github.com/Dimuthu1234/soundcloud-boost/internal/cache"
	"github.com/Dimuthu1234/soundcloud-boost/internal/db"
	"github.com/Dimuthu1234/soundcloud-boost/internal/middleware"
	"github.com/Dimuthu1234/soundcloud-boost/internal/repository"
	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}

	var pkgCache *cache.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		pkgCache, err = cache.New(addr, 5*time.Minute, logger)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		logger.Info("redis cache enabled", zap.String("addr", addr))
	}

	// ======================
	// EXTERNALS
	// ======================
	paypalClient, err := paypal.NewClient("SoundCloudBoost")
	if err != nil {
		logger.Fatal("paypal client init failed", zap.Error(err))
	}

	mailer, err := resend.NewResendMailer("SoundCloudBoost <noreply@soundcloudboost.dev>")
	if err != nil {
		logger.Fatal("mailer init failed", zap.Error(err))
	}

	// ======================
	// REPOSITORIES
	// ======================
	adminRepo := repository.NewAdminRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(adminRepo)
	packageSvc := services.NewPackageService(packageRepo, pkgCache)
	orderSvc := services.NewOrderService(orderRepo, paymentRepo, packageRepo, paypalClient, mailer, logger)
	paymentSvc := services.NewPaymentService(paymentRepo, orderRepo, paypalClient, mailer, logger)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.MetricsMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerPackageRoutes(api, packageSvc)
	registerOrderRoutes(api, orderSvc, paymentSvc)
	registerWebhookRoutes(api, paymentSvc, paypalClient, logger)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("starting server", zap.String("port", port))
	e.Logger.Fatal(e.Start(":" + port))
}
