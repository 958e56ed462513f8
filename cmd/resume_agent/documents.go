package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var (
	documentID   string
	documentUser string
)

var guidanceCmd = &cobra.Command{
	Use:   "guidance",
	Short: "Show the completeness summary of a document",
	Long:  "Print section statuses, the next section to work on and the questions to ask for a stored document.",
	RunE:  runGuidance,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a document against the resume schema and its style",
	RunE:  runValidate,
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the stored documents of a user",
	RunE:  runDocuments,
}

func init() {
	guidanceCmd.Flags().StringVar(&documentID, "doc", "", "Document id")
	_ = guidanceCmd.MarkFlagRequired("doc")

	validateCmd.Flags().StringVar(&documentID, "doc", "", "Document id")
	_ = validateCmd.MarkFlagRequired("doc")

	documentsCmd.Flags().StringVar(&documentUser, "user", "", "User id (default from config)")

	rootCmd.AddCommand(guidanceCmd, validateCmd, documentsCmd)
}

// openStoredApp builds the app and insists on a database, since documents outlive one process only there
func openStoredApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required to read stored documents")
	}
	return buildApp(ctx, cfg)
}

func runGuidance(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openStoredApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.service.GetGuidance(ctx, documentID)
	if err != nil {
		return err
	}
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSummary(summary)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), summary)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openStoredApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.service.ValidateDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if a.cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintDocumentReport(report)
	} else if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("document %s is not valid", documentID)
	}
	return nil
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openStoredApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	user := documentUser
	if user == "" {
		user = a.cfg.UserID
	}
	ids, err := a.database.ListByUser(ctx, user)
	if err != nil {
		return err
	}
	for _, id := range ids {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
