package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/server"
	"github.com/hongminglow/blog-be/internal/service"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/storage/memory"
	"github.com/hongminglow/blog-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer store.Close()

	revoked, closeRevoked, err := openRevocations(ctx, cfg)
	if err != nil {
		log.Fatalf("init revocation store: %v", err)
	}
	defer closeRevoked()

	svc := service.New(store)
	if cfg.Admin.Enabled() {
		bootstrapAdmin(ctx, svc, cfg.Admin)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(cfg, server.Deps{
		Store:    store,
		Service:  svc,
		Revoked:  revoked,
		Registry: registry,
	})

	go func() {
		log.Printf("blog backend (%s, %s storage) listening on %s", cfg.Env, cfg.StorageDriver, cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Println("using in-memory storage; data is lost on restart")
		return memory.New(), nil
	}
	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func openRevocations(ctx context.Context, cfg config.Config) (auth.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		return auth.NewMemoryRevocationStore(), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return auth.NewRedisRevocationStore(client, ""), func() { client.Close() }, nil
}

func bootstrapAdmin(ctx context.Context, svc *service.Service, admin config.AdminAccount) {
	user, created, err := svc.EnsureAdministrator(ctx, dto.CreateUserRequest{
		FirstName: "Site",
		LastName:  "Administrator",
		Email:     admin.Email,
		Username:  admin.Username,
		Phone:     "-",
		Password:  admin.Password,
	})
	switch {
	case err != nil:
		log.Fatalf("bootstrap administrator: %v", err)
	case created:
		log.Printf("created administrator %s", user.Username)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
