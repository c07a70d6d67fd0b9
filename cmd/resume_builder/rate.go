package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rating"
	"github.com/spf13/cobra"
)

var rateJSON bool

var rateCmd = &cobra.Command{
	Use:   "rate <resume.pdf>",
	Short: "Score a PDF resume",
	Long:  "Extracts the text of a PDF resume and asks the model for a score out of 100 with feedback.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRate,
}

func init() {
	rateCmd.Flags().BoolVar(&rateJSON, "json", false, "Print the rating as JSON")
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	result, err := rating.Rate(cmd.Context(), client, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	if rateJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRating(result)
	return nil
}
