package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/observability"
	"github.com/noor/cv-tailor/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored CV for one job posting",
	Long: `Runs a single tailoring pass: analyzes the CV against the job description,
optionally merges extra skills, rewrites the CV and saves the application.

The questionnaire is an API feature; on the command line, skill gaps are
printed so they can be supplied on a second run with --skills.`,
	RunE: runGenerate,
}

var (
	generateConfigPath string
	generateJobFile    string
	generateCompany    string
	generateTitle      string
	generateSkills     []string
	generateDataDir    string
	generateTemplate   string
	generateAPIKey     string
	generateVerbose    bool
)

func init() {
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&generateJobFile, "job", "j", "", "Path to job description text file (required)")
	generateCmd.Flags().StringVarP(&generateCompany, "company", "c", "", "Company name (required)")
	generateCmd.Flags().StringVar(&generateTitle, "title", "", "Job title (required)")
	generateCmd.Flags().StringSliceVar(&generateSkills, "skills", nil, "Skills to add to the CV before tailoring")
	generateCmd.Flags().StringVar(&generateDataDir, "data-dir", "", "Directory for application records and CV history")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to the base CV template")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := generateCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("title"); err != nil {
		panic(fmt.Sprintf("failed to mark title flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(cmd, generateConfigPath, generateDataDir, generateTemplate, generateAPIKey, generateVerbose)
	if err != nil {
		return err
	}

	jobDescription, err := os.ReadFile(generateJobFile)
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

	result, err := engine.Generate(ctx, string(jobDescription), generateSkills)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysis(result.Analysis)
	printer.PrintResult(result)

	app := &store.Application{
		Company:        generateCompany,
		JobTitle:       generateTitle,
		JobDescription: string(jobDescription),
		SkillGaps:      result.SkillGaps,
		SkillsAdded:    result.SkillsAdded,
		Warning:        result.Warning,
	}
	if _, err := st.SaveApplication(app); err != nil {
		return err
	}
	if _, err := st.SaveCVHTML(app.ID, result.CVHTML); err != nil {
		return err
	}

	fmt.Printf("Saved application %s\n", app.ID)
	fmt.Printf("CV written to %s\n", st.CVPath(app.ID))

	if len(result.SkillGaps) > 0 && len(generateSkills) == 0 {
		fmt.Printf("\nSkill gaps found: %s\n", strings.Join(result.SkillGaps, ", "))
		fmt.Println("Re-run with --skills to add the ones you have experience with.")
	}

	return nil
}
