package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nightjarlabs/companion-core/internal/engine"
	"github.com/nightjarlabs/companion-core/internal/genclient"
	"github.com/nightjarlabs/companion-core/internal/patterns"
	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/pipeline"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region main
func main() {
	dbPath := envOr("COMPANION_DB", "companion.db")
	stageID := envOr("COMPANION_STAGE", stage.DefaultStageID)
	userID := envOr("COMPANION_USER", "local")
	apiKey := os.Getenv("GEN_API_KEY")

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

	var gen genclient.Generator
	if apiKey != "" {
		gen = genclient.NewClient(os.Getenv("GEN_API_URL"), apiKey,
			envOr("GEN_MODEL", "claude-sonnet-4-5"), 1024)
	}

	fmt.Println("Companion ready.")
	fmt.Printf("  DB: %s | Stage: %s | User: %s\n", dbPath, stageID, userID)
	if gen == nil {
		fmt.Println("  No GEN_API_KEY set: dry-run mode, printing directives.")
	}
	fmt.Println("Type a message (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	var history []genclient.Message

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		d := eng.ProcessTurn(ctx, userID, stageID, text)

		if gen == nil {
			out, _ := json.MarshalIndent(d, "", "  ")
			fmt.Printf("\n%s\n\n", out)
			cancel()
			continue
		}

		history = append(history, genclient.Message{Role: "user", Content: text})
		reply, err := gen.Generate(ctx, d, history)
		cancel()
		if err != nil {
			log.Printf("generation error: %v", err)
			continue
		}
		reply = eng.PostProcess(context.Background(), userID, stageID, reply)
		history = append(history, genclient.Message{Role: "assistant", Content: reply})

		fmt.Printf("\n%s\n\n", reply)
		fmt.Printf("[%s] strategy=%s tone=%s\n", stageID, d.Strategy, d.ToneTag)
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
