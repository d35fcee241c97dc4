package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"billshare/internal/auth"
	"billshare/internal/balance"
	"billshare/internal/bill"
	"billshare/internal/bill/split"
	"billshare/internal/config"
	"billshare/internal/database"
	"billshare/internal/debt"
	"billshare/internal/event"
	"billshare/internal/friendship"
	"billshare/internal/group"
	"billshare/internal/invite"
	"billshare/internal/notification"
	"billshare/internal/purchase"
	"billshare/internal/user"
	mw "billshare/pkg/middleware"
)

// @title           Billshare API
// @version         1.0
// @description     Shared expense tracking: split bills, record debts, settle up
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Redis is optional; a nil client disables the balance cache
	redisClient := database.NewRedisClient(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// In-process event bus
	bus := event.NewBus()

	// Split Strategy Factory (Factory Pattern)
	splitFactory := split.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	authService := auth.NewService(userService, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authHandler := auth.NewHandler(authService)

	// Friendship feature
	friendshipRepo := friendship.NewRepository(db)
	friendshipService := friendship.NewService(friendshipRepo)
	friendshipHandler := friendship.NewHandler(friendshipService)

	// Group feature (membership gated on friendships)
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, friendshipService)
	groupHandler := group.NewHandler(groupService)

	// Bill feature (with split factory injected)
	billRepo := bill.NewRepository(db)
	billService := bill.NewService(billRepo, splitFactory, bus)
	billHandler := bill.NewHandler(billService)

	// Debt feature
	debtRepo := debt.NewRepository(db)
	debtService := debt.NewService(debtRepo, bus)
	debtHandler := debt.NewHandler(debtService)

	// Balance feature (cached in redis when configured)
	balanceCache := balance.NewCache(redisClient)
	balanceCache.SubscribeInvalidation(bus)
	balanceRepo := balance.NewRepository(db)
	balanceService := balance.NewService(balanceRepo, balanceCache)
	balanceHandler := balance.NewHandler(balanceService)

	// Purchase feature (finalizing generates direct debts)
	purchaseRepo := purchase.NewRepository(db)
	purchaseService := purchase.NewService(purchaseRepo, userService, debtService)
	purchaseHandler := purchase.NewHandler(purchaseService)

	// Invite feature
	inviteRepo := invite.NewRepository(db)
	inviteService := invite.NewService(inviteRepo, billService, userService)
	inviteHandler := invite.NewHandler(inviteService)

	// Notification feature (fed by the event bus)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationService.Subscribe(bus)
	notificationHandler := notification.NewHandler(notificationService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTAuth(cfg.JWTSecret))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/friendships", friendshipHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/bills", billHandler.Routes())
			r.Mount("/debts", debtHandler.Routes())
			r.Mount("/purchases", purchaseHandler.Routes())
			r.Mount("/balances", balanceHandler.Routes())
			r.Mount("/invites", inviteHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
