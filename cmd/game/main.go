package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/rulebound/adventure/internal/config"
	"github.com/rulebound/adventure/internal/logger"
	"github.com/rulebound/adventure/internal/services"
	"github.com/rulebound/adventure/pkg/engine"
	"github.com/rulebound/adventure/pkg/rules"
	"github.com/rulebound/adventure/pkg/transcript"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	rulesPath := cfg.RulesPath
	if len(os.Args) > 1 {
		rulesPath = os.Args[1]
	}

	rs, err := rules.Load(rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load rules: %v\n", err)
		os.Exit(1)
	}
	if err := rs.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Rules file %s is invalid:\n%v\n", rulesPath, err)
		os.Exit(1)
	}

	llm := services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	fmt.Printf("Waiting for %s...\n", cfg.ModelName)
	if err := llm.InitModel(initCtx, cfg.ModelName); err != nil {
		fmt.Fprintf(os.Stderr, "Could not reach Ollama at %s: %v\nIs Ollama running?\n", cfg.OllamaURL, err)
		os.Exit(1)
	}

	store, err := newStorage(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	eng, err := engine.New(rs, nil, llm, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}

	if cfg.TranscriptPath != "" {
		w, err := transcript.New(cfg.TranscriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open transcript: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = w.Close() // Ignore error in defer
		}()
		eng.WithTranscript(w)
	}

	p := tea.NewProgram(NewGameUI(eng, store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func newStorage(cfg *config.Config, log *slog.Logger) (services.Storage, error) {
	if cfg.RedisAddr != "" {
		rs := services.NewRedisStorage(cfg.RedisAddr, log)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rs.WaitForConnection(ctx); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		return rs, nil
	}
	return services.NewFileStorage(cfg.SaveDir)
}
