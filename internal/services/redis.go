package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// Unlock sessions live long enough to cover one rental pickup; the gate
// state is reconstructible from the booking row if a session expires.
const unlockSessionTTL = 24 * time.Hour

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func unlockSessionKey(bookingID string) string {
	return fmt.Sprintf("unlock:session:%s", bookingID)
}

// SaveUnlockSession stores an unlock-gate session in Redis
func SaveUnlockSession(ctx context.Context, session *models.UnlockSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, unlockSessionKey(session.BookingID), data, unlockSessionTTL).Err()
}

// GetUnlockSession retrieves the unlock-gate session for a booking.
// Returns redis.Nil if no session exists.
func GetUnlockSession(ctx context.Context, bookingID string) (*models.UnlockSession, error) {
	data, err := RedisClient.Get(ctx, unlockSessionKey(bookingID)).Result()
	if err != nil {
		return nil, err
	}

	var session models.UnlockSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// DeleteUnlockSession drops the unlock-gate session for a booking
func DeleteUnlockSession(ctx context.Context, bookingID string) error {
	return RedisClient.Del(ctx, unlockSessionKey(bookingID)).Err()
}

// IsSessionMissing reports whether an unlock-session lookup missed
func IsSessionMissing(err error) bool {
	return err == redis.Nil
}
