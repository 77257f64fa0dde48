package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/moment_cart/internal/cache"
	"github.com/fjod/moment_cart/internal/cart"
	"github.com/fjod/moment_cart/internal/catalog"
	h "github.com/fjod/moment_cart/internal/http"
	"github.com/fjod/moment_cart/internal/storage"
)

type Config struct {
	HTTPPort        string
	StorageBackend  string // file, redis, mongo or memory
	StorageDir      string
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDBName     string
	KafkaBrokers    string
	CatalogFile     string
	WalletBalance   int64
	PaymentDelay    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "file"),
		StorageDir:      getEnv("STORAGE_DIR", "./data"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "momentcart"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		CatalogFile:     getEnv("CATALOG_FILE", ""),
		WalletBalance:   getEnvInt64("WALLET_BALANCE", 10_000_000),
		PaymentDelay:    getEnvDuration("PAYMENT_DELAY", 2*time.Second),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return value
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Redis ping succeeded")
	}

	kv, cleanup := buildKV(ctx, cfg, redisClient)
	defer cleanup()

	store := storage.NewAdapter(kv)
	if err := store.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	var analyticsCache cache.AnalyticsCache = cache.NewMemoryCache()
	var sessionStore cache.SessionStore = cache.NewMemorySession()
	if redisClient != nil {
		analyticsCache = cache.NewRedisCache(redisClient)
		sessionStore = cache.NewRedisSession(redisClient)
	}

	provider := catalog.NewMemoryProvider()
	if cfg.CatalogFile != "" {
		if err := provider.LoadFile(cfg.CatalogFile); err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		log.Printf("Catalog loaded from %s", cfg.CatalogFile)
	}

	var publisher *cart.CheckoutPublisher
	if cfg.KafkaBrokers != "" {
		publisher = cart.NewCheckoutPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer publisher.Close()
		log.Printf("Checkout events publish to %s", cfg.KafkaBrokers)
	}

	svc := cart.NewService(cart.Deps{
		Store:     store,
		Cache:     analyticsCache,
		Session:   sessionStore,
		Catalog:   provider,
		Wallet:    cart.NewBreakerWallet(cart.NewStaticWallet(cfg.WalletBalance)),
		Payments:  cart.NewSimulatedProcessor(cfg.PaymentDelay, cart.RandomOutcome{}),
		Publisher: publisher,
	})
	svc.RefreshCart(ctx)

	router := h.NewRouter(svc, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "moment-cart"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Moment cart starting on :%s (storage=%s)", cfg.HTTPPort, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func buildKV(ctx context.Context, cfg *Config, redisClient *redis.Client) (storage.KV, func()) {
	switch cfg.StorageBackend {
	case "file":
		kv, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			log.Fatalf("Failed to open file storage: %v", err)
		}
		return kv, func() {}
	case "redis":
		if redisClient == nil {
			log.Fatal("STORAGE_BACKEND=redis requires REDIS_ADDR")
		}
		return storage.NewRedisStore(redisClient), func() {}
	case "mongo":
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
		return storage.NewMongoStore(db), func() {
			if err := db.Client().Disconnect(ctx); err != nil {
				log.Printf("mongo disconnect failed: %v", err)
			}
		}
	case "memory":
		return storage.NewMemoryStore(), func() {}
	default:
		log.Fatalf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
		return nil, nil
	}
}
