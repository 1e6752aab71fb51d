package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	redisClient *redis.Client
	amqpConn    *amqp.Connection
}

// NewHealthHandler checks the dependencies that are non-nil. amqpConn is nil
// when events go to Kafka.
func NewHealthHandler(db Pinger, redisClient *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{"status": "ok"}

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "postgres": "unavailable"})
		return
	}
	resp["postgres"] = "connected"

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "redis": "unavailable"})
			return
		}
		resp["redis"] = "connected"
	}
	if h.amqpConn != nil {
		if h.amqpConn.IsClosed() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "rabbitmq": "unavailable"})
			return
		}
		resp["rabbitmq"] = "connected"
	}

	c.JSON(http.StatusOK, resp)
}
