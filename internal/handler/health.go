package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Contabilizar/estoque/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Root answers the plaintext liveness probe the web client polls.
func Root(c *gin.Context) {
	c.String(http.StatusOK, "API Controle Estoque rodando")
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// A nil Redis client reports "disabled" and does not degrade the status.
func Health(db *gorm.DB, rdb *redis.Client, redisCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"db":            dbStatus,
			"redis":         redisStatus,
			"redis_circuit": redisCB.State().String(),
		})
	}
}
