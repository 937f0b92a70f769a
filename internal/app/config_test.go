package app

import (
	"testing"
	"time"

	"github.com/yungbote/coursenotes-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "NOTE_STORE", "NOTES_TTL_SECONDS", "CORS_ALLOW_ORIGINS", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" {
		t.Fatalf("port: %q", cfg.Port)
	}
	if cfg.NoteStore != NoteStoreMemory {
		t.Fatalf("note store: %q", cfg.NoteStore)
	}
	if cfg.NotesTTL != 5*time.Minute {
		t.Fatalf("ttl: %v", cfg.NotesTTL)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NOTE_STORE", "Redis")
	t.Setenv("NOTES_TTL_SECONDS", "60")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.test, https://b.test")
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "9090" || cfg.NoteStore != NoteStoreRedis || cfg.NotesTTL != time.Minute {
		t.Fatalf("config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigUnknownStoreFallsBack(t *testing.T) {
	t.Setenv("NOTE_STORE", "postgres")
	if got := LoadConfig(logger.Nop()).NoteStore; got != NoteStoreMemory {
		t.Fatalf("note store: %q", got)
	}
}

func TestWireServicesWithoutLLM(t *testing.T) {
	t.Setenv("NOTE_STORE", "")
	t.Setenv("OPENAI_API_KEY", "")
	log := logger.Nop()
	cfg := LoadConfig(log)
	clients, err := wireClients(t.Context(), log, cfg)
	if err != nil {
		t.Fatalf("wireClients: %v", err)
	}
	if clients.OpenAI != nil {
		t.Fatalf("openai client should be nil without a key")
	}
	svc := wireServices(log, clients)
	if svc.Pipeline == nil || svc.Course == nil {
		t.Fatalf("services not wired: %+v", svc)
	}
}
