package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/organizer-agent/internal/adapters/llm"
	"github.com/PabloGalante/organizer-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/organizer-agent/internal/app/agentflow"
	"github.com/PabloGalante/organizer-agent/internal/app/conversation"
	"github.com/PabloGalante/organizer-agent/internal/app/reminders"
	"github.com/PabloGalante/organizer-agent/internal/app/resolver"
	"github.com/PabloGalante/organizer-agent/internal/app/tools"
	"github.com/PabloGalante/organizer-agent/internal/config"
	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// app holds the wired services shared by serve and chat.
type app struct {
	cfg       *config.Config
	store     *memory.Store
	conv      *conversation.Service
	reminders *reminders.Service
	logger    *slog.Logger
}

// loadConfig reads .env, locates and loads the config file, then applies
// the --verbose and --log-level flags.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, "", err
	}

	explicit, _ := cmd.Root().PersistentFlags().GetString("config")
	path, err := config.FindConfig(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if level, _ := cmd.Root().PersistentFlags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, path, nil
}

func setupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return observability.Setup(w, level, cfg.LogFormat), nil
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	loc, err := cfg.Organizer.Location()
	if err != nil {
		return nil, fmt.Errorf("organizer.timezone: %w", err)
	}

	store := memory.NewStore(memory.Options{
		CurrentUserName: cfg.Organizer.CurrentUser,
		EmailDomain:     cfg.Organizer.EmailDomain,
		AvatarBaseURL:   cfg.Organizer.AvatarBaseURL,
		Location:        loc,
		Deadlines:       cfg.Reminders.Deadlines.Preference(),
		Events:          cfg.Reminders.Events.Preference(),
	})
	if cfg.Organizer.SeedDemo {
		if err := store.SeedDemo(); err != nil {
			return nil, err
		}
		logger.Info("demo data loaded", "members", len(store.Members()))
	}

	model, err := buildModel(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("model client ready", "backend", cfg.Model.Backend, "model", cfg.Model.Name)

	registry := tools.NewOrganizerRegistry(store, resolver.New(store))
	loop := agentflow.NewOrchestrator(model, registry, agentflow.Options{
		MaxToolCalls: cfg.Model.MaxToolCalls,
		SystemPrompt: llm.BuildSystemPrompt,
	})

	return &app{
		cfg:       cfg,
		store:     store,
		conv:      conversation.NewService(loop, memory.NewSessionStore(), memory.NewTranscriptStore()),
		reminders: reminders.NewService(store, memory.NewReminderStore()),
		logger:    logger,
	}, nil
}

func buildModel(ctx context.Context, mc config.ModelConfig) (domain.ModelClient, error) {
	if mc.Backend == config.BackendMock {
		return llm.NewMockLLM(), nil
	}

	gc := llm.GenAIConfig{
		Model:       mc.Name,
		Temperature: mc.Temperature,
	}
	if mc.Backend == config.BackendVertex {
		gc.Project = mc.Project
		gc.Location = mc.Location
	} else {
		gc.APIKey = mc.APIKey
	}

	client, err := llm.NewGenAIClient(ctx, gc)
	if err != nil {
		return nil, err
	}
	return client, nil
}
