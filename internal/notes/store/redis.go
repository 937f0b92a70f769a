package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type redisStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings before returning, so a misconfigured
// address fails at startup rather than on the first run.
func NewRedisStore(ctx context.Context, log *logger.Logger, cfg RedisConfig) (Store, func() error, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisStore(log, rdb, cfg), rdb.Close, nil
}

func newRedisStore(log *logger.Logger, rdb *goredis.Client, cfg RedisConfig) *redisStore {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "coursenotes:notes:"
	}
	return &redisStore{
		log:    log.With("service", "RedisNoteStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *redisStore) TTL() time.Duration { return s.ttl }

func (s *redisStore) key(k string) string { return s.prefix + k }

func (s *redisStore) Put(ctx context.Context, key string, set types.StoredNoteSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		observeOp("put", err)
		return fmt.Errorf("marshal note set: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		observeOp("put", err)
		return fmt.Errorf("redis set: %w", err)
	}
	observeOp("put", nil)
	return nil
}

func (s *redisStore) Get(ctx context.Context, key string) (types.StoredNoteSet, error) {
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		observeOp("get", ErrNotFoundOrExpired)
		return types.StoredNoteSet{}, ErrNotFoundOrExpired
	}
	if err != nil {
		observeOp("get", err)
		return types.StoredNoteSet{}, fmt.Errorf("redis get: %w", err)
	}
	var set types.StoredNoteSet
	if err := json.Unmarshal(raw, &set); err != nil {
		s.log.Warn("dropping undecodable note set", "key", key, "error", err)
		observeOp("get", err)
		return types.StoredNoteSet{}, fmt.Errorf("decode note set: %w", err)
	}
	observeOp("get", nil)
	return set, nil
}
