// File: services/booking/intent.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"drutaseva/models"

	"github.com/go-redis/redis/v8"
)

const (
	intentPrefix = "bookingIntent:"
	intentTTL    = 30 * time.Minute
)

// IntentStore parks a booking attempt when the auth gate turns an anonymous
// rider away. After login the intent is claimed with delete-on-read semantics,
// so the original action resumes exactly once and a replayed claim cannot
// duplicate it.
type IntentStore struct {
	Cache *redis.Client
}

func NewIntentStore(cache *redis.Client) *IntentStore {
	return &IntentStore{Cache: cache}
}

// Save parks the intent under the rider's device key.
func (s *IntentStore) Save(ctx context.Context, deviceID string, intent models.BookingIntent) error {
	if deviceID == "" {
		return NewValidationError("deviceId", "device id is required")
	}
	intent.SavedAt = time.Now()
	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal booking intent: %w", err)
	}
	if err := s.Cache.Set(ctx, intentPrefix+deviceID, data, intentTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking intent: %w", err)
	}
	return nil
}

// Claim removes and returns the parked intent. A second claim finds nothing.
func (s *IntentStore) Claim(ctx context.Context, deviceID string) (*models.BookingIntent, error) {
	data, err := s.Cache.GetDel(ctx, intentPrefix+deviceID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, NewNotFoundError("no pending booking intent")
		}
		return nil, fmt.Errorf("failed to claim booking intent: %w", err)
	}
	var intent models.BookingIntent
	if err := json.Unmarshal([]byte(data), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse booking intent: %w", err)
	}
	return &intent, nil
}
