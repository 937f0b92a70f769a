package store

import (
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

type memoryEntry struct {
	set       types.StoredNoteSet
	expiresAt time.Time
	timer     *clock.Timer
}

type memoryStore struct {
	log   *logger.Logger
	clock clock.Clock
	ttl   time.Duration
	items sync.Map // key -> *memoryEntry
}

// NewMemoryStore builds an in-process store. A nil clk uses the wall clock.
func NewMemoryStore(log *logger.Logger, clk clock.Clock, ttl time.Duration) Store {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		log:   log.With("service", "MemoryNoteStore"),
		clock: clk,
		ttl:   ttl,
	}
}

func (s *memoryStore) TTL() time.Duration { return s.ttl }

func (s *memoryStore) Put(ctx context.Context, key string, set types.StoredNoteSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := &memoryEntry{set: set, expiresAt: s.clock.Now().Add(s.ttl)}
	e.timer = s.clock.AfterFunc(s.ttl, func() {
		if s.items.CompareAndDelete(key, e) {
			s.log.Debug("note set evicted", "key", key)
		}
	})
	if prev, loaded := s.items.Swap(key, e); loaded {
		if old, ok := prev.(*memoryEntry); ok && old.timer != nil {
			old.timer.Stop()
		}
	}
	observeOp("put", nil)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (types.StoredNoteSet, error) {
	if err := ctx.Err(); err != nil {
		return types.StoredNoteSet{}, err
	}
	v, ok := s.items.Load(key)
	if !ok {
		observeOp("get", ErrNotFoundOrExpired)
		return types.StoredNoteSet{}, ErrNotFoundOrExpired
	}
	e := v.(*memoryEntry)
	if !s.clock.Now().Before(e.expiresAt) {
		s.items.CompareAndDelete(key, e)
		observeOp("get", ErrNotFoundOrExpired)
		return types.StoredNoteSet{}, ErrNotFoundOrExpired
	}
	observeOp("get", nil)
	return e.set, nil
}
