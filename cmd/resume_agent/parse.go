package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse and repair raw model output into a typed section",
	Long: "Parse raw model output (fenced, truncated or with trailing commas) into a schema-valid section and " +
		"print it. With --style the section is also quality checked against that style.",
	RunE: runParse,
}

var (
	parseSection string
	parseInFile  string
	parseStyleID int
)

func init() {
	parseCmd.Flags().StringVar(&parseSection, "section", "", "Section the output belongs to")
	parseCmd.Flags().StringVarP(&parseInFile, "in", "i", "", "Path to raw output file, - for stdin")
	parseCmd.Flags().IntVar(&parseStyleID, "style", 0, "Also validate against this style")

	_ = parseCmd.MarkFlagRequired("section")
	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

// parseResult is the output of the parse command
type parseResult struct {
	Section types.SectionName  `json:"section"`
	Content json.RawMessage    `json:"content"`
	Report  *validation.Report `json:"report,omitempty"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	name, err := types.ParseSectionName(parseSection)
	if err != nil {
		return err
	}

	var raw []byte
	if parseInFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(parseInFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	section, err := parsing.Parse(name, string(raw))
	if err != nil {
		return err
	}
	content, err := types.MarshalSection(section)
	if err != nil {
		return err
	}
	result := parseResult{Section: name, Content: content}

	if parseStyleID != 0 {
		reqs, err := templates.NewDefaultRegistry().Get(parseStyleID)
		if err != nil {
			return err
		}
		result.Report = validation.Validate(section, reqs)
	}

	return writeJSON(cmd.OutOrStdout(), result)
}
