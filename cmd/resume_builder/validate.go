package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/spf13/cobra"
)

var (
	validateTemplate string
	validateJSON     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <resume.json>",
	Short: "Validate a resume document",
	Long:  "Validates a resume document JSON file and reports field errors and which sections can grow.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "Template to validate against: freshie or experienced")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := templateFor(validateTemplate, cfg)
	if err != nil {
		return err
	}

	result, doc, err := readDocument(args[0], tmpl)
	if err != nil {
		return err
	}
	gates := validation.ComputeGates(doc, tmpl)

	if validateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"validation": result, "gates": gates}); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(result, gates)
	}

	if !result.IsValid {
		return fmt.Errorf("resume has %d field errors", len(result.FieldErrors))
	}
	return nil
}
