package main

import (
	"log"
	"os"
	"strconv"

	"github.com/nightjarlabs/companion-core/internal/api"
	"github.com/nightjarlabs/companion-core/internal/engine"
	"github.com/nightjarlabs/companion-core/internal/events"
	"github.com/nightjarlabs/companion-core/internal/patterns"
	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/pipeline"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region main
func main() {
	dbPath := envOr("COMPANION_DB", "companion.db")
	port, err := strconv.Atoi(envOr("PORT", "8080"))
	if err != nil {
		log.Fatalf("invalid PORT: %v", err)
	}

	repo, err := patterns.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer repo.Close()

	personas, err := persona.NewSQLStore(repo.DB())
	if err != nil {
		log.Fatalf("failed to init persona store: %v", err)
	}

	sel := selection.NewRoundRobin()
	pipe := pipeline.New(sel)

	configs := stage.Builtin()
	if path := os.Getenv("COMPANION_STAGES"); path != "" {
		configs, err = stage.LoadFile(path)
		if err != nil {
			log.Fatalf("failed to load stage config: %v", err)
		}
	}
	registry, err := stage.NewRegistry(configs, pipe.ValidationSet())
	if err != nil {
		log.Fatalf("invalid stage config: %v", err)
	}

	eng := engine.New(registry, personas, patterns.NewTracker(repo), pipe, sel)

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		pub, err := events.Connect(natsURL, os.Getenv("NATS_TOKEN"))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer pub.Close()
		eng.SetEventSink(pub)
		log.Printf("[SERVER] publishing insight events to %s", natsURL)
	}

	log.Printf("[SERVER] db=%s stages=%d", dbPath, len(configs))
	if err := api.NewServer(eng, port).Start(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
