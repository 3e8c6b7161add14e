package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/tcnr01/storefront-backend/config"
	"github.com/tcnr01/storefront-backend/internal/app/controller"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	"github.com/tcnr01/storefront-backend/internal/db"
	"github.com/tcnr01/storefront-backend/internal/middleware"
	"github.com/tcnr01/storefront-backend/internal/router"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"github.com/tcnr01/storefront-backend/pkg/redis"
	"github.com/tcnr01/storefront-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Database.SeedDemo {
		if err := db.Seed(db.GetDB()); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Token revocation needs redis; without it logout is a no-op
	var blacklist service.TokenBlacklist
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		blacklist = redis.NewBlacklist(redis.GetClient())
	} else {
		logger.Warn("Redis disabled, issued tokens cannot be revoked before expiry")
	}

	orderNumbers, err := util.NewOrderNumberGenerator()
	if err != nil {
		logger.Fatal("Failed to build order number generator", err)
	}

	// Initialize repositories
	gdb := db.GetDB()
	userRepo := repository.NewUserRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)
	cartRepo := repository.NewCartRepository(gdb)
	orderRepo := repository.NewOrderRepository(gdb)
	wishlistRepo := repository.NewWishlistRepository(gdb)

	// Initialize services
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(gdb, cartRepo, productRepo)
	orderService := service.NewOrderService(gdb, orderRepo, cartRepo, orderNumbers)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	authService := service.NewAuthService(
		userRepo,
		cartService,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Setup router
	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService),
		controller.NewWishlistController(wishlistService),
		controller.NewHealthController(gdb),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// operations run concurrently, so dependencies close inside the
			// server's operation once in-flight requests have drained
			"http-server": func(ctx context.Context) error {
				return shutdownInOrder(ctx, server)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server stopped", map[string]interface{}{
		"exit_code": exitCode,
	})
	os.Exit(exitCode)
}

// shutdownInOrder drains the HTTP server, then closes redis and the database.
func shutdownInOrder(ctx context.Context, server *http.Server) error {
	logger.Info("Shutting down HTTP server...")
	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	if err := redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("redis: %w", err))
	}

	logger.Info("Closing database connection...")
	if err := db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	return errors.Join(errs...)
}
