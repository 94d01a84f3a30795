package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noor/cv-tailor/internal/observability"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved applications",
	RunE:  runList,
}

var (
	listConfigPath string
	listDataDir    string
)

func init() {
	listCmd.Flags().StringVar(&listConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	listCmd.Flags().StringVar(&listDataDir, "data-dir", "", "Directory for application records and CV history")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(cmd, listConfigPath, listDataDir, "", "", false)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	apps, err := st.ListApplications()
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintApplications(apps)
	return nil
}
