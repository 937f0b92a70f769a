package app

import (
	"strings"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/notes/store"
	"github.com/yungbote/coursenotes-backend/internal/platform/envutil"
	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
	"github.com/yungbote/coursenotes-backend/internal/platform/udemy"
)

const (
	NoteStoreMemory = "memory"
	NoteStoreRedis  = "redis"
)

type Config struct {
	Port    string
	LogMode string

	UdemyBaseURL string
	UdemyTimeout time.Duration

	NotesTTL       time.Duration
	NoteStore      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAITimeout    time.Duration
	OpenAIMaxRetries int

	CORSOrigins    []string
	MetricsEnabled bool
	TracingEnabled bool
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),

		UdemyBaseURL: envutil.String("UDEMY_BASE_URL", udemy.DefaultBaseURL),
		UdemyTimeout: envutil.Seconds("UDEMY_TIMEOUT_SECONDS", 60*time.Second),

		NotesTTL:       envutil.Seconds("NOTES_TTL_SECONDS", store.DefaultTTL),
		NoteStore:      strings.ToLower(envutil.String("NOTE_STORE", NoteStoreMemory)),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		RedisPassword:  envutil.String("REDIS_PASSWORD", ""),
		RedisDB:        envutil.Int("REDIS_DB", 0),
		RedisKeyPrefix: envutil.String("REDIS_KEY_PREFIX", "coursenotes:notes:"),

		OpenAIAPIKey:     envutil.String("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    envutil.String("OPENAI_BASE_URL", ""),
		OpenAIModel:      envutil.String("OPENAI_MODEL", ""),
		OpenAITimeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 180*time.Second),
		OpenAIMaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 3),

		CORSOrigins:    envutil.List("CORS_ALLOW_ORIGINS", nil),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		TracingEnabled: envutil.Bool("OTEL_ENABLED", false),
	}
	if cfg.NoteStore != NoteStoreMemory && cfg.NoteStore != NoteStoreRedis {
		if log != nil {
			log.Warn("unknown NOTE_STORE; using memory", "note_store", cfg.NoteStore)
		}
		cfg.NoteStore = NoteStoreMemory
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"udemy_base_url", cfg.UdemyBaseURL,
			"note_store", cfg.NoteStore,
			"notes_ttl", cfg.NotesTTL.String(),
			"llm_enabled", cfg.OpenAIAPIKey != "",
			"metrics_enabled", cfg.MetricsEnabled,
			"tracing_enabled", cfg.TracingEnabled,
		)
	}
	return cfg
}
