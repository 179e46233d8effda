package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	CacheRedis   bool      `json:"cacheRedis"`
	ContextRedis bool      `json:"contextRedis"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(cacheClient, contextClient *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			mu.Lock()
			currentHealth = HealthStatus{
				Mongo:        mongoClient.Ping(ctx, nil) == nil,
				CacheRedis:   cacheClient.Ping(ctx).Err() == nil,
				ContextRedis: contextClient.Ping(ctx).Err() == nil,
				CheckedAt:    time.Now(),
			}
			mu.Unlock()
		}
	}()
}
