package utils

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the dependency snapshot served on /health. Each redis
// client is reported by role so an auth-cache outage (sessions failing) is
// distinguishable from a general cache outage (availability reads slow).
type HealthStatus struct {
	Mongo      bool      `json:"mongo"`
	CacheRedis bool      `json:"cacheRedis"`
	AuthRedis  bool      `json:"authRedis"`
	CheckedAt  time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor refreshes the snapshot every minute, pinging Mongo and
// both redis clients.
func StartHealthMonitor(mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			snapshot := HealthStatus{
				Mongo:      mongoClient.Ping(ctx, nil) == nil,
				CacheRedis: GetCacheClient().Ping(ctx).Err() == nil,
				AuthRedis:  GetAuthCacheClient().Ping(ctx).Err() == nil,
				CheckedAt:  time.Now(),
			}

			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}
	}()
}
