package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the registered resume styles",
	Long:  "List the registered resume styles and the sections each one requires. Styles from the configured YAML file are included.",
	RunE:  runTemplates,
}

var (
	templatesCategory string
	templatesJSON     bool
)

func init() {
	templatesCmd.Flags().StringVar(&templatesCategory, "category", "", "Only list styles of this category")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := templates.NewDefaultRegistry()
	if cfg.TemplatesFile != "" {
		if _, err := registry.LoadFile(cfg.TemplatesFile); err != nil {
			return err
		}
	}

	styles := registry.List()
	if templatesCategory != "" {
		styles = registry.ByCategory(templates.Category(templatesCategory))
		if len(styles) == 0 {
			return fmt.Errorf("no styles in category %q", templatesCategory)
		}
	}

	if templatesJSON {
		return writeJSON(cmd.OutOrStdout(), styles)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(styles)
	return nil
}
