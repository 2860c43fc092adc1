package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/weconnect/server/internal/buffer"
	"codeberg.org/weconnect/server/internal/config"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/internal/payments"
	"codeberg.org/weconnect/server/internal/stream"
	"codeberg.org/weconnect/server/weconnect/dashboard"
	"codeberg.org/weconnect/server/weconnect/feed"
	"codeberg.org/weconnect/server/weconnect/materials"
	"codeberg.org/weconnect/server/weconnect/users"
	"codeberg.org/weconnect/server/weconnect/wallet"
)

const (
	// how often the flusher writes buffered counters to Postgres
	counterFlushInterval = 5 * time.Second
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.SupabaseConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// configure connection pool for supabase free tier pooler compatibility
	// free tier has ~10-15 pooler connections, so keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// use simple protocol for supabase pooler (PgBouncer) compatibility:
	// transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)
	materialRepo := materials.NewRepository(db)
	feedRepo := feed.NewRepository(db)
	notifier := notifications.New(db)

	// view/download counters land in Redis; the flusher folds them into
	// Postgres and announces the updated records
	counterBuffer, err := buffer.NewCounterBuffer(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize redis buffer: %w", err)
	}

	hub := stream.NewHub()

	flusher := buffer.NewFlusher(counterBuffer, materialRepo, hub, counterFlushInterval)

	gateway := payments.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	walletService := wallet.NewService(db, gateway)

	dashboardService := dashboard.NewService(materialRepo, hub)

	router := gin.Default()

	server := &Server{
		db:               db,
		config:           cfg,
		userRepo:         userRepo,
		materialRepo:     materialRepo,
		feedRepo:         feedRepo,
		walletService:    walletService,
		dashboardService: dashboardService,
		notifier:         notifier,
		gateway:          gateway,
		hub:              hub,
		buffer:           counterBuffer,
		flusher:          flusher,
		router:           router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
