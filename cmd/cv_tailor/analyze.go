package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the CV against a job description without rewriting it",
	RunE:  runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeJobFile    string
	analyzeDataDir    string
	analyzeTemplate   string
	analyzeAPIKey     string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job description text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeDataDir, "data-dir", "", "Directory for application records and CV history")
	analyzeCmd.Flags().StringVarP(&analyzeTemplate, "template", "t", "", "Path to the base CV template")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := analyzeCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, analyzeConfigPath, analyzeDataDir, analyzeTemplate, analyzeAPIKey, analyzeVerbose)
	if err != nil {
		return err
	}

	jobDescription, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
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

	cvHTML, err := st.LoadTemplate()
	if err != nil {
		return err
	}

	analysis, err := engine.Analyze(ctx, string(jobDescription), cvHTML)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintAnalysis(analysis)
	return nil
}
