// Package session persists per-conversation chat history and search
// filters in Redis. Persistence is last-write-wins per session key;
// concurrent turns on the same session id are not coordinated.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/types"
)

// Config configures the session store.
type Config struct {
	Addr         string        `yaml:"addr" json:"addr"`
	Password     string        `yaml:"password" json:"password"`
	DB           int           `yaml:"db" json:"db"`
	TTL          time.Duration `yaml:"ttl" json:"ttl"`
	MaxRetries   int           `yaml:"max_retries" json:"max_retries"`
	PoolSize     int           `yaml:"pool_size" json:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" json:"min_idle_conns"`
	HistoryLimit int           `yaml:"history_limit" json:"history_limit"`
}

// DefaultConfig returns the default session store configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		DB:           0,
		TTL:          24 * time.Hour,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
		HistoryLimit: 40,
	}
}

// Store holds session state in Redis.
type Store struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
}

// NewStore connects to Redis and returns the session store.
func NewStore(config Config, logger *zap.Logger) (*Store, error) {
	if config.TTL == 0 {
		config.TTL = 24 * time.Hour
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 40
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		MaxRetries:   config.MaxRetries,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("session store connected", zap.String("addr", config.Addr))
	return &Store{
		redis:  client,
		config: config,
		logger: logger.With(zap.String("component", "session")),
	}, nil
}

// NewStoreWithClient wires an existing Redis client. Used by tests.
func NewStoreWithClient(client *redis.Client, config Config, logger *zap.Logger) *Store {
	if config.TTL == 0 {
		config.TTL = 24 * time.Hour
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 40
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		redis:  client,
		config: config,
		logger: logger.With(zap.String("component", "session")),
	}
}

func historyKey(sessionID string) string { return "session:history:" + sessionID }
func filtersKey(sessionID string) string { return "session:filters:" + sessionID }

// History returns the stored conversation for the session, oldest first.
// A missing session yields an empty history.
func (s *Store) History(ctx context.Context, sessionID string) ([]types.Message, error) {
	data, err := s.redis.Get(ctx, historyKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	var msgs []types.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		// Corrupt history is dropped rather than poisoning the session.
		s.logger.Warn("discarding unreadable session history",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil
	}
	return msgs, nil
}

// AppendHistory appends messages to the session conversation and trims it
// to the configured limit, keeping the most recent turns.
func (s *Store) AppendHistory(ctx context.Context, sessionID string, msgs ...types.Message) error {
	existing, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	combined := append(existing, msgs...)
	if len(combined) > s.config.HistoryLimit {
		combined = combined[len(combined)-s.config.HistoryLimit:]
	}
	data, err := json.Marshal(combined)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(sessionID), data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("set history: %w", err)
	}
	return nil
}

// Filters returns the session's saved search criteria, or an empty
// Criteria when none are stored.
func (s *Store) Filters(ctx context.Context, sessionID string) (types.Criteria, error) {
	data, err := s.redis.Get(ctx, filtersKey(sessionID)).Bytes()
	if err == redis.Nil {
		return types.Criteria{}, nil
	}
	if err != nil {
		return types.Criteria{}, fmt.Errorf("get filters: %w", err)
	}
	var c types.Criteria
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("discarding unreadable session filters",
			zap.String("session_id", sessionID), zap.Error(err))
		return types.Criteria{}, nil
	}
	return c, nil
}

// SaveFilters stores the session's search criteria, overwriting any
// previous value.
func (s *Store) SaveFilters(ctx context.Context, sessionID string, c types.Criteria) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	if err := s.redis.Set(ctx, filtersKey(sessionID), data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("set filters: %w", err)
	}
	return nil
}

// ClearFilters removes the session's saved criteria.
func (s *Store) ClearFilters(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, filtersKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear filters: %w", err)
	}
	return nil
}

// Clear removes all state for the session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, historyKey(sessionID), filtersKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Healthy reports whether the backing Redis responds to ping.
func (s *Store) Healthy(ctx context.Context) bool {
	return s.redis.Ping(ctx).Err() == nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.redis.Close()
}
