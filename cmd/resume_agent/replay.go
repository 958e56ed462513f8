package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded conversations from a JSONL file",
	Long: "Replay recorded conversations. Each line of the input is one turn " +
		`({"transcript", "user_id", "style_id", "section", "raw_input"}). ` +
		"Transcripts run concurrently, turns within a transcript run in order against one document.",
	RunE: runReplay,
}

var (
	replayInFile      string
	replayConcurrency int
)

func init() {
	replayCmd.Flags().StringVarP(&replayInFile, "in", "i", "", "Path to the turns JSONL file")
	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", pipeline.DefaultReplayConcurrency, "Transcripts replayed at once")

	_ = replayCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(replayInFile)
	if err != nil {
		return fmt.Errorf("failed to open turns file: %w", err)
	}
	defer func() { _ = f.Close() }()

	turns, err := pipeline.ReadTurns(f)
	if err != nil {
		return fmt.Errorf("failed to read turns: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.service.Replay(ctx, turns, replayConcurrency, nil)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, r := range results {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "transcript %s (%d turns)\n", r.Transcript, len(r.Responses))
			printer.PrintSummary(r.Summary)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d transcripts stopped early", failed, len(results))
	}
	return nil
}
