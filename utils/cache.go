// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"drutaseva/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (booking wizard sessions, intents).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// OTPCacheClient is the dedicated client for OTP codes and resend throttles.
	OTPCacheClient *redis.Client
)

// InitRedis initializes every Redis client the server uses.
func InitRedis() {
	InitCache()
	InitAuthCache()
	InitOTPCache()
}

func newClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func mustPing(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newClient(config.AppConfig.RedisCacheDB)
	mustPing(CacheClient, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() {
	AuthCacheClient = newClient(config.AppConfig.RedisAuthDB)
	mustPing(AuthCacheClient, "Auth Cache")
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// InitOTPCache initializes the Redis client for OTP storage.
func InitOTPCache() {
	OTPCacheClient = newClient(config.AppConfig.RedisOTPDB)
	mustPing(OTPCacheClient, "OTP Cache")
}

// GetOTPCacheClient returns the Redis client for OTP storage.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		InitOTPCache()
	}
	return OTPCacheClient
}
