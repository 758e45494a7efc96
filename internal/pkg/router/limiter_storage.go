package router

import (
	"net"
	"strconv"

	"github.com/gofiber/storage/redis"

	"github.com/xydatalabs/orderpay/internal/pkg/cache"
	"github.com/xydatalabs/orderpay/internal/pkg/env"
)

const limiterRedisDB = 1

// NewLimiterStorage shares rate limit counters between instances through the
// same Redis the cache package talks to, on a separate database.
func NewLimiterStorage() *redis.Storage {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: limiterRedisDB,
		Reset:    false,
	})
}
