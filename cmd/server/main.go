package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sevaportal/docs" // swagger docs
	"sevaportal/internal/auth"
	"sevaportal/internal/cache"
	"sevaportal/internal/catalog"
	"sevaportal/internal/config"
	"sevaportal/internal/db"
	"sevaportal/internal/events"
	"sevaportal/internal/handler"
	"sevaportal/internal/repository"
	"sevaportal/internal/router"
	"sevaportal/internal/service"
)

type repositories struct {
	users    repository.UserRepository
	services repository.ServiceRepository
	orders   repository.OrderRepository
}

func openRepositories(cfg *config.Config) repositories {
	if cfg.StorageDriver == config.StorageMemory {
		log.Println("Using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		return repositories{users: store.Users(), services: store.Services(), orders: store.Orders()}
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("database migrate: %v", err)
	}
	return repositories{
		users:    repository.NewUserRepository(gormDB),
		services: repository.NewServiceRepository(gormDB),
		orders:   repository.NewOrderRepository(gormDB),
	}
}

// instanceScope returns the namespace for cache keys and tokens. The memory
// driver restarts ids at 1 on every boot, so each process gets a fresh scope
// and never sees cached users or tokens issued by a previous one.
func instanceScope(driver string) string {
	if driver == config.StorageMemory {
		return "boot-" + uuid.NewString()
	}
	return ""
}

// @title Seva Portal API
// @version 1.0
// @description Citizen services portal: service catalog, orders, profiles and referrals.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	repos := openRepositories(cfg)

	seeded, err := catalog.Seed(ctx, repos.services)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	if seeded > 0 {
		log.Printf("Seeded %d catalog services", seeded)
	}

	scope := instanceScope(cfg.StorageDriver)
	redisClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer redisClient.Close()
	cacheClient := redisClient.Namespace(scope)

	var tokenStore auth.TokenStore
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unavailable (%v); caching disabled, tokens kept in memory", err)
		cacheClient = nil
		tokenStore = auth.NewMemoryTokenStore()
	} else {
		tokenStore = auth.NewRedisTokenStore(cacheClient)
	}
	cancel()

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		dispatcher := events.NewDispatcher(events.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaOrderTopic))
		defer dispatcher.Close()
		publisher = dispatcher
		log.Printf("Publishing order events to %s on %s", cfg.KafkaOrderTopic, strings.Join(cfg.KafkaBrokers, ","))
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret).WithScope(scope)

	authService := service.NewAuthService(repos.users, jwtService, tokenStore, cacheClient, cfg.ReferralReward)
	userService := service.NewUserService(repos.users, cacheClient)
	referralService := service.NewReferralService(repos.users)
	catalogService := service.NewCatalogService(repos.services, cacheClient)
	orderService := service.NewOrderService(repos.orders, repos.services, publisher)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("admin bootstrap: %v", err)
		}
		log.Printf("Admin account %q ready", cfg.AdminUsername)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService, referralService, cfg.PublicOrigin),
		Services: handler.NewServiceHandler(catalogService),
		Orders:   handler.NewOrderHandler(orderService),
	}, jwtService, tokenStore)

	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, stop := context.WithTimeout(ctx, 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
