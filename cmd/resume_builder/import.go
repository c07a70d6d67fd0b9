package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var (
	importOutFile  string
	importMetaFile string
)

var importCmd = &cobra.Command{
	Use:   "import <resume.pdf|resume.docx|resume.txt>",
	Short: "Parse an existing resume into a resume document",
	Long:  "Extracts the text of a PDF, DOCX or plain text resume and asks the model to structure it into a resume document JSON file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importOutFile, "out", "o", "", "Path to output resume JSON file (required)")
	importCmd.Flags().StringVar(&importMetaFile, "metadata", "", "Path to write import metadata JSON (optional)")

	if err := importCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
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

	result, err := ingestion.Import(cmd.Context(), client, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	if err := writeJSON(importOutFile, result.Document); err != nil {
		return err
	}
	if importMetaFile != "" {
		if err := writeJSON(importMetaFile, result.Metadata); err != nil {
			return err
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintImport(result)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote resume to %s\n", importOutFile)
	return nil
}
