package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	userRepo "drutaseva/database/repository/user"
	"drutaseva/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func abortWithAuthError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
		Message:          message,
		EmergencyContact: utils.EmergencyPhone(),
	})
}

func JWTAuthUserMiddleware(userRepo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Recover from unexpected panics.
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{
					Message:          "Internal server error",
					EmergencyContact: utils.EmergencyPhone(),
				})
			}
		}()

		ctx := context.Background()

		// Retrieve token from header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithAuthError(c, "Insufficient authorization")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			abortWithAuthError(c, "Insufficient authorization")
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			abortWithAuthError(c, "Insufficient authorization")
			return
		}

		// Compute token hash.
		computedHash := utils.HashToken(tokenString)
		if computedHash == "" {
			abortWithAuthError(c, "Insufficient authorization")
			return
		}

		cacheKey := utils.AuthCachePrefix + userID

		// Get the dedicated auth cache client.
		authCache := utils.GetAuthCacheClient()
		cacheEnabled := true
		if authCache == nil {
			// Instead of aborting, log and treat it as a cache miss.
			log.Printf("WARNING: Auth cache client not available. Falling back to DB lookup.")
			cacheEnabled = false
		}

		// Attempt to retrieve the token hash from Redis if cache is enabled.
		if cacheEnabled {
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				// If found and valid, refresh TTL (1 hour) and continue.
				if cachedHash == computedHash {
					_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
					c.Set("userID", userID)
					c.Next()
					return
				}
				abortWithAuthError(c, "Token mismatch")
				return
			} else if err != redis.Nil {
				// Log any other error and proceed to DB lookup.
				log.Printf("WARNING: Error retrieving auth cache key: %v. Falling back to DB lookup.", err)
			}
		}

		// Cache miss: Query the database.
		usr, err := userRepo.GetByTokenHash(computedHash)
		if err != nil {
			abortWithAuthError(c, "Authentication error")
			return
		}
		if usr == nil || usr.ID != userID {
			abortWithAuthError(c, "Token mismatch")
			return
		}

		if cacheEnabled {
			_ = authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
		}

		c.Set("userID", userID)
		c.Next()
	}
}
