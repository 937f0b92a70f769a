package app

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"

	"github.com/yungbote/coursenotes-backend/internal/notes/store"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/openai"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
)

type Clients struct {
	Udemy     udemy.Client
	OpenAI    openai.Client // nil when no API key is configured
	NoteStore store.Store

	closers []func() error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Udemy
	uc, err := udemy.NewClient(log, udemy.Config{BaseURL: cfg.UdemyBaseURL, Timeout: cfg.UdemyTimeout})
	if err != nil {
		return Clients{}, fmt.Errorf("init udemy client: %w", err)
	}

	// Openai
	var llm openai.Client
	if cfg.OpenAIAPIKey != "" {
		llm, err = openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.OpenAITimeout,
			MaxRetries: cfg.OpenAIMaxRetries,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
	} else {
		log.Warn("OPENAI_API_KEY not set; notes will contain raw transcripts")
	}

	// Note store
	out := Clients{Udemy: uc, OpenAI: llm}
	switch cfg.NoteStore {
	case NoteStoreRedis:
		st, closeFn, err := store.NewRedisStore(ctx, log, store.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
			TTL:       cfg.NotesTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis note store: %w", err)
		}
		out.NoteStore = st
		out.closers = append(out.closers, closeFn)
	default:
		out.NoteStore = store.NewMemoryStore(log, clock.New(), cfg.NotesTTL)
	}
	return out, nil
}

func (c Clients) Close() {
	for _, fn := range c.closers {
		_ = fn()
	}
}
