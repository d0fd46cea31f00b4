package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/quickstore/internal/api"
	"github.com/example/quickstore/internal/assistant"
	"github.com/example/quickstore/internal/auth"
	"github.com/example/quickstore/internal/config"
	"github.com/example/quickstore/internal/domain/catalog"
	"github.com/example/quickstore/internal/domain/favorites"
	"github.com/example/quickstore/internal/domain/order"
	"github.com/example/quickstore/internal/domain/review"
	"github.com/example/quickstore/internal/domain/stats"
	"github.com/example/quickstore/internal/domain/ticket"
	"github.com/example/quickstore/internal/domain/user"
	"github.com/example/quickstore/internal/infrastructure/cache"
	"github.com/example/quickstore/internal/infrastructure/kafka"
	"github.com/example/quickstore/internal/infrastructure/store"
)

// backends groups the store interfaces the services need. All three backends
// implement every one of them.
type backends interface {
	catalog.Store
	order.Store
	ticket.Store
	review.Store
	user.Store
	favorites.Store
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Failed to load config: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] QuickStore API")
	log.Println("[API] ========================================")
	log.Printf("[API] Store backend: %s", cfg.Store.Backend)

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[API] Failed to open store: %v", err)
	}
	defer cleanup()

	// Optional Redis cache in front of the product catalog.
	var catalogStore catalog.Store = st
	if cfg.Redis.Addr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("[API] Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		catalogStore = cache.NewCachedProducts(st, rdb)
		log.Printf("[API] Product cache enabled: %s", cfg.Redis.Addr)
	}

	// Optional Kafka producer for order events.
	var publisher order.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Kafka producer enabled: %v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Domain services.
	catalogSvc := catalog.NewService(catalogStore)
	orderSvc := order.NewService(catalogSvc, st, publisher, cfg.RestockOnCancel)
	ticketSvc := ticket.NewService(st)
	reviewSvc := review.NewService(st, orderSvc)
	favoritesSvc := favorites.NewService(st)
	userSvc := user.NewService(st)
	statsSvc := stats.NewService(catalogSvc, orderSvc, ticketSvc, reviewSvc)

	// Seed the admin account.
	if _, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Mobile, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("[API] Failed to seed admin account: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	var gateway *assistant.Gateway
	if cfg.Assistant.Endpoint != "" {
		gateway = assistant.NewGateway(cfg.Assistant.Endpoint, cfg.Assistant.APIKey, cfg.Assistant.Model)
		log.Printf("[API] Assistant gateway enabled: %s", cfg.Assistant.Endpoint)
	}

	handlers := api.NewHandlers(catalogSvc, orderSvc, ticketSvc, reviewSvc, favoritesSvc, statsSvc, gateway)
	authHandlers := api.NewAuthHandlers(userSvc, jwtService)
	router := api.NewRouter(handlers, authHandlers, jwtService)

	server := &http.Server{
		Addr:    cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (backends, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := store.ConnectPostgres(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.InitSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[API] Connected to PostgreSQL")
		return pg, func() { db.Close() }, nil

	case "dynamo":
		client, err := store.ConnectDynamo(ctx, cfg.Store.DynamoRegion, cfg.Store.DynamoEndpoint)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[API] Using DynamoDB table %s", cfg.Store.DynamoTable)
		return store.NewDynamoStore(client, cfg.Store.DynamoTable), func() {}, nil

	default:
		log.Println("[API] Using in-memory store (data is not persisted)")
		return store.NewMemoryStore(), func() {}, nil
	}
}
