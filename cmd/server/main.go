package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/umelife/marketplace/internal/config"
	"github.com/umelife/marketplace/internal/database"
	"github.com/umelife/marketplace/internal/mailer"
	"github.com/umelife/marketplace/internal/presence"
	postgresrepo "github.com/umelife/marketplace/internal/repository/postgres"
	"github.com/umelife/marketplace/internal/service"
	"github.com/umelife/marketplace/internal/transport/http/handlers"
	"github.com/umelife/marketplace/internal/transport/http/middleware"
	"github.com/umelife/marketplace/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal(err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()
	log.Println("Connected to redis")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	listingRepo := postgresrepo.NewListingRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	reportRepo := postgresrepo.NewReportRepo(pool)
	orderRepo := postgresrepo.NewOrderRepo(pool)
	cartRepo := postgresrepo.NewCartRepo(pool)
	pushRepo := postgresrepo.NewPushSubscriptionRepo(pool)

	// WebSocket hub with redis-backed typing presence
	typingStore := presence.NewTypingStore(rdb)
	hub := ws.NewHub(typingStore)
	go hub.Run()

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	listingService := service.NewListingService(listingRepo)
	chatService := service.NewChatService(messageRepo, userRepo, cfg.ChatEditWindow)
	reportService := service.NewReportService(reportRepo, userRepo)
	orderService := service.NewOrderService(orderRepo)
	cartService := service.NewCartService(cartRepo, listingRepo)
	pushService := service.NewPushService(pushRepo, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)

	chatService.SetNotifier(ws.NewHubNotifier(hub))
	chatService.SetPusher(pushService)
	orderService.SetPusher(pushService)

	// Mailer is optional; the app runs without SMTP configured.
	if m, err := mailer.New(cfg, userRepo); err != nil {
		log.Printf("mailer disabled: %v", err)
	} else {
		reportService.SetMailer(m)
		orderService.SetMailer(m)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService)
	chatHandler := handlers.NewChatHandler(chatService)
	reportHandler := handlers.NewReportHandler(reportService)
	cartHandler := handlers.NewCartHandler(cartService)
	pushHandler := handlers.NewPushHandler(pushService)
	webhookHandler := handlers.NewWebhookHandler(orderService, cfg.StripeWebhookSecret)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/listings", listingHandler.List)
	mux.HandleFunc("GET /api/v1/listings/{id}", listingHandler.Get)
	mux.HandleFunc("GET /api/v1/categories", listingHandler.Categories)
	mux.HandleFunc("GET /api/v1/push/vapid-key", pushHandler.PublicKey)
	mux.HandleFunc("POST /api/v1/stripe/webhook", webhookHandler.HandleStripe)

	// Protected - Listings
	mux.Handle("POST /api/v1/listings", auth(http.HandlerFunc(listingHandler.Create)))
	mux.Handle("PATCH /api/v1/listings/{id}", auth(http.HandlerFunc(listingHandler.Update)))
	mux.Handle("DELETE /api/v1/listings/{id}", auth(http.HandlerFunc(listingHandler.Delete)))

	// Protected - Chat
	mux.Handle("GET /api/v1/conversations", auth(http.HandlerFunc(chatHandler.ListConversations)))
	mux.Handle("GET /api/v1/listings/{id}/messages/{uid}", auth(http.HandlerFunc(chatHandler.ListMessages)))
	mux.Handle("POST /api/v1/messages", auth(http.HandlerFunc(chatHandler.SendMessage)))
	mux.Handle("PATCH /api/v1/messages/{id}", auth(http.HandlerFunc(chatHandler.EditMessage)))
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(chatHandler.DeleteMessage)))
	mux.Handle("POST /api/v1/messages/read", auth(http.HandlerFunc(chatHandler.MarkRead)))
	mux.Handle("GET /api/v1/messages/unread-count", auth(http.HandlerFunc(chatHandler.UnreadCount)))

	// Protected - Reports
	mux.Handle("POST /api/v1/reports", auth(http.HandlerFunc(reportHandler.Create)))
	mux.Handle("GET /api/v1/admin/reports", auth(http.HandlerFunc(reportHandler.ListAll)))
	mux.Handle("PATCH /api/v1/admin/reports/{id}", auth(http.HandlerFunc(reportHandler.UpdateStatus)))

	// Protected - Cart
	mux.Handle("GET /api/v1/cart", auth(http.HandlerFunc(cartHandler.List)))
	mux.Handle("POST /api/v1/cart", auth(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("DELETE /api/v1/cart/{id}", auth(http.HandlerFunc(cartHandler.Remove)))

	// Protected - Push
	mux.Handle("POST /api/v1/push/subscribe", auth(http.HandlerFunc(pushHandler.Subscribe)))
	mux.Handle("POST /api/v1/push/unsubscribe", auth(http.HandlerFunc(pushHandler.Unsubscribe)))

	// WebSocket (token auth via query param)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
