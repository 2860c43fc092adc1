package main

import (
	"github.com/gin-gonic/gin"
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

// holds all dependencies and state for the API server
type Server struct {
	db               *pgxpool.Pool
	config           *config.Config
	userRepo         *users.Repository
	materialRepo     *materials.Repository
	feedRepo         *feed.Repository
	walletService    *wallet.Service
	dashboardService *dashboard.Service
	notifier         *notifications.Service
	gateway          *payments.Client
	hub              *stream.Hub
	buffer           *buffer.CounterBuffer
	flusher          *buffer.Flusher
	router           *gin.Engine
}
