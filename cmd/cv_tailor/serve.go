package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/config"
	"github.com/noor/cv-tailor/internal/pdf"
	"github.com/noor/cv-tailor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the REST API exposing CV generation, the skill-gap questionnaire, saved applications and PDF export.",
	RunE:  runServe,
}

var (
	serveConfigPath string
	serveAddr       string
	serveDataDir    string
	serveTemplate   string
	serveAPIKey     string
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :5000)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory for application records and CV history")
	serveCmd.Flags().StringVarP(&serveTemplate, "template", "t", "", "Path to the base CV template")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, serveConfigPath, serveDataDir, serveTemplate, serveAPIKey, serveVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	engine, closeEngine, err := newEngine(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeEngine()

	sessions, err := config.NewSessionConfig()
	if err != nil {
		return err
	}

	renderer := pdf.NewRenderer(time.Duration(cfg.PDFTimeoutSeconds) * time.Second)

	srv, err := server.New(server.Config{ListenAddr: cfg.ListenAddr}, engine, st, renderer, sessions)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
