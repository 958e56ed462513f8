package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Turn one conversational answer into a resume section",
	Long: "Run one conversational turn: generate the section through the provider chain, apply it to the document " +
		"and print the response with the updated completeness summary.",
	RunE: runGenerate,
}

var (
	generateStyleID  int
	generateSection  string
	generateInput    string
	generateInFile   string
	generateDocument string
	generateUserID   string
)

func init() {
	generateCmd.Flags().IntVar(&generateStyleID, "style", 0, "Resume style id (default from config)")
	generateCmd.Flags().StringVar(&generateSection, "section", "", "Section to fill (basics, work, education, ...)")
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Raw user answer")
	generateCmd.Flags().StringVar(&generateInFile, "input-file", "", "Read the raw answer from a file instead")
	generateCmd.Flags().StringVar(&generateDocument, "doc", "", "Existing document id (requires a database)")
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "User id (default from config)")

	_ = generateCmd.MarkFlagRequired("section")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	input := generateInput
	if generateInFile != "" {
		if input != "" {
			return fmt.Errorf("cannot use --input with --input-file")
		}
		data, err := os.ReadFile(generateInFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		input = string(data)
	}
	if input == "" {
		return fmt.Errorf("an answer is required (use --input or --input-file)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateStyleID != 0 {
		cfg.StyleID = generateStyleID
	}
	if generateUserID != "" {
		cfg.UserID = generateUserID
	}

	ctx := context.Background()
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	req := &types.GenerationRequest{
		StyleID:    cfg.StyleID,
		Section:    generateSection,
		RawInput:   input,
		UserID:     cfg.UserID,
		DocumentID: generateDocument,
	}

	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		onProgress = func(event pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", event.Step, event.Message)
		}
	}

	resp, err := a.service.RequestGenerationWithProgress(ctx, req, onProgress)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintResponse(resp)
		printer.PrintSummary(resp.CompletenessSummary)
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
