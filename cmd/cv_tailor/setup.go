package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/config"
	"github.com/noor/cv-tailor/internal/llm"
	"github.com/noor/cv-tailor/internal/store"
	"github.com/noor/cv-tailor/internal/tailoring"
)

// loadMergedConfig loads the optional config file and applies the flag
// overrides the subcommands share. Flags win over file values.
func loadMergedConfig(cmd *cobra.Command, configPath, dataDir, templatePath, apiKey string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if verbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
		}
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("template") {
		cfg.CVTemplatePath = templatePath
	}
	if cmd.Flags().Changed("api-key") {
		cfg.AI.APIKey = apiKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	return cfg.ApplyDefaults(), nil
}

// openStore opens the application store described by the config.
func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(cfg.DataDir, cfg.CVTemplatePath)
}

// newEngine builds the tailoring engine, including the model client. The
// returned close func releases the client connection.
func newEngine(ctx context.Context, cfg config.Config, st *store.Store) (*tailoring.Engine, func(), error) {
	if cfg.AI.APIKey == "" {
		return nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or use --api-key)")
	}

	llmCfg := llm.DefaultConfig()
	for tier, model := range cfg.AI.Models {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}

	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.AI.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	closeFn := func() { _ = client.Close() }
	return tailoring.NewEngine(client, st, cfg.HistoryLimit), closeFn, nil
}
