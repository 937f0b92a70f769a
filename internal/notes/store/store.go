// Package store keeps generated note sets between a generate run and the
// download request that follows it.
package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/observability"
	"github.com/yungbote/coursenotes-backend/internal/types"
)

const DefaultTTL = 5 * time.Minute

var ErrNotFoundOrExpired = errors.New("notes not found or expired")

// Store is a keyed, TTL-bounded cache of note sets. Entries become
// unreachable TTL after Put regardless of reads.
type Store interface {
	Put(ctx context.Context, key string, set types.StoredNoteSet) error
	// Get returns ErrNotFoundOrExpired for unknown or evicted keys.
	Get(ctx context.Context, key string) (types.StoredNoteSet, error)
	TTL() time.Duration
}

// Key derives the rendezvous key shared by a generate run and its download.
func Key(courseID int64, runID string) string {
	return strconv.FormatInt(courseID, 10) + "-" + runID
}

func observeOp(op string, err error) {
	m := observability.Current()
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFoundOrExpired):
		result = "miss"
	case err != nil:
		result = "error"
	}
	m.IncStoreOp(op, result)
}
