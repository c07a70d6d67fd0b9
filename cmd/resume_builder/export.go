package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/spf13/cobra"
)

var (
	exportFormat   string
	exportOutDir   string
	exportTemplate string
)

var exportCmd = &cobra.Command{
	Use:   "export <resume.json>",
	Short: "Export a resume document as DOCX and/or PDF",
	Long: `Exports a valid resume document as resume.docx, resume.pdf, or both. PDF export captures
the HTML preview with headless Chrome. With --format all both files are built concurrently
from the same document.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "all", "Output format: docx, pdf or all")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Output directory (default: output_dir from config, or .)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template: freshie or experienced")
	rootCmd.AddCommand(exportCmd)
}

func exportFormats(name string) ([]export.Format, error) {
	switch name {
	case "docx":
		return []export.Format{export.FormatDOCX}, nil
	case "pdf":
		return []export.Format{export.FormatPDF}, nil
	case "all":
		return []export.Format{export.FormatDOCX, export.FormatPDF}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want docx, pdf or all)", name)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	formats, err := exportFormats(exportFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := templateFor(exportTemplate, cfg)
	if err != nil {
		return err
	}

	result, doc, err := readDocument(args[0], tmpl)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	ed := editor.NewWithDocument(*doc, tmpl, nil)
	if !result.IsValid {
		printer.PrintValidation(result, ed.Gates())
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	svc := &export.Service{
		Rasterizer:    newRasterizer(cfg),
		RasterOptions: rasterize.Options{Scale: cfg.RasterScale},
		Store:         store,
		Verbose:       cfg.Verbose,
	}

	artifacts, err := svc.Export(cmd.Context(), ed, formats...)
	if err != nil {
		return err
	}

	outDir := exportOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Filename)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Filename, err)
		}
		if a.Location == "" {
			a.Location = path
		}
	}

	printer.PrintArtifacts(artifacts)
	return nil
}
