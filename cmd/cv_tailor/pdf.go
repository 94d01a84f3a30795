package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/pdf"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Render a saved CV to PDF",
	Long:  "Renders the CV of a saved application (or an arbitrary HTML file) to PDF using a headless browser.",
	RunE:  runPDF,
}

var (
	pdfConfigPath string
	pdfDataDir    string
	pdfID         string
	pdfHTMLFile   string
	pdfOutFile    string
)

func init() {
	pdfCmd.Flags().StringVar(&pdfConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	pdfCmd.Flags().StringVar(&pdfDataDir, "data-dir", "", "Directory for application records and CV history")
	pdfCmd.Flags().StringVar(&pdfID, "id", "", "Application ID whose CV to render (mutually exclusive with --html)")
	pdfCmd.Flags().StringVar(&pdfHTMLFile, "html", "", "Path to an HTML file to render (mutually exclusive with --id)")
	pdfCmd.Flags().StringVarP(&pdfOutFile, "out", "o", "", "Output PDF path (defaults next to the source)")

	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, _ []string) error {
	if (pdfID == "") == (pdfHTMLFile == "") {
		return fmt.Errorf("exactly one of --id or --html is required")
	}

	cfg, err := loadMergedConfig(cmd, pdfConfigPath, pdfDataDir, "", "", false)
	if err != nil {
		return err
	}

	renderer := pdf.NewRenderer(time.Duration(cfg.PDFTimeoutSeconds) * time.Second)
	ctx := context.Background()

	if pdfHTMLFile != "" {
		data, err := renderer.RenderFile(ctx, pdfHTMLFile)
		if err != nil {
			return err
		}
		out := pdfOutFile
		if out == "" {
			out = pdfHTMLFile + ".pdf"
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("PDF written to %s\n", out)
		return nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	cvHTML, err := st.LoadCVHTML(pdfID)
	if err != nil {
		return err
	}

	data, err := renderer.Render(ctx, cvHTML)
	if err != nil {
		return err
	}

	if pdfOutFile != "" {
		if err := os.WriteFile(pdfOutFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("PDF written to %s\n", pdfOutFile)
		return nil
	}

	path, err := st.SavePDF(pdfID, data)
	if err != nil {
		return err
	}
	fmt.Printf("PDF written to %s\n", path)
	return nil
}
