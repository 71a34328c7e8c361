package scorefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/splashtrack/pkg/models"
)

const (
	lastGoodKey = "scorefeed:lastgood"

	// Long enough to survive a restart mid-slate, short enough that
	// yesterday's games never resurface.
	LastGoodTTL = 6 * time.Hour
)

// RedisStore persists the last good snapshot across process restarts and
// shares it between replicas
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed snapshot store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Write stores the snapshot
func (s *RedisStore) Write(ctx context.Context, snapshot models.ScoreboardSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	return s.client.Set(ctx, lastGoodKey, data, LastGoodTTL).Err()
}

// Read retrieves the last good snapshot, if any
func (s *RedisStore) Read(ctx context.Context) (models.ScoreboardSnapshot, error) {
	data, err := s.client.Get(ctx, lastGoodKey).Result()
	if err != nil {
		return models.ScoreboardSnapshot{}, err
	}

	var snapshot models.ScoreboardSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return models.ScoreboardSnapshot{}, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	return snapshot, nil
}
