package handler

import (
	"context"
	"net/http"
	"time"

	"batchtrace/internal/infra"
	"batchtrace/internal/service"
	"batchtrace/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db          *gorm.DB
	rdb         *redis.Client
	mailBreaker *infra.CircuitBreaker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, mailBreaker *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, mailBreaker: mailBreaker}
}

// Check godoc
// @Summary  Liveness and dependency health
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
		status = http.StatusServiceUnavailable
	}

	queues := gin.H{}
	for _, q := range []string{service.ReportQueue, service.EmailQueue} {
		if n, err := worker.DLQLength(ctx, h.rdb, q); err == nil {
			queues[q] = gin.H{"dead_letters": n}
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"database":     dbStatus,
		"redis":        redisStatus,
		"mail_breaker": h.mailBreaker.State().String(),
		"queues":       queues,
		"time":         time.Now().Format(time.RFC3339),
	})
}
