package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/tailoring"
	"github.com/spf13/cobra"
)

var (
	tailorJobFile  string
	tailorJobURL   string
	tailorOutFile  string
	tailorTemplate string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor <resume.json>",
	Short: "Rewrite a resume for a job description",
	Long: `Extracts the key skills of a job description and rewrites the summary, skills, projects
and (for the experienced template) work experience of a resume to match them. The job
description is read from --job or fetched from --job-url.`,
	Args: cobra.ExactArgs(1),
	RunE: runTailor,
}

func init() {
	tailorCmd.Flags().StringVarP(&tailorJobFile, "job", "j", "", "Path to a job description text file")
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "URL of a job posting to fetch")
	tailorCmd.Flags().StringVarP(&tailorOutFile, "out", "o", "", "Path to output tailored resume JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorTemplate, "template", "t", "", "Template: freshie or experienced")
	tailorCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	tailorCmd.MarkFlagsOneRequired("job", "job-url")

	if err := tailorCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := templateFor(tailorTemplate, cfg)
	if err != nil {
		return err
	}

	_, doc, err := readDocument(args[0], tmpl)
	if err != nil {
		return err
	}

	var jobDescription string
	if tailorJobFile != "" {
		data, err := os.ReadFile(tailorJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jobDescription = string(data)
	} else {
		fetcher := &fetch.JobFetcher{Verbose: cfg.Verbose}
		if cfg.UseBrowser {
			fetcher.Browser = fetch.Browser{}
		}
		posting, err := fetcher.JobDescription(cmd.Context(), tailorJobURL)
		if err != nil {
			return err
		}
		if cfg.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Fetched %d chars from %s (%s)\n", len(posting.Text), posting.URL, posting.Platform)
		}
		jobDescription = posting.Text
	}
	if strings.TrimSpace(jobDescription) == "" {
		return tailoring.ErrNoJobDescription
	}

	client, err := newLLMClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	tailorer := tailoring.NewTailorer(client)
	tailorer.Verbose = cfg.Verbose
	ed := editor.NewWithDocument(*doc, tmpl, nil)
	before := ed.Snapshot()

	if err := tailoring.NewSession(ed, tailorer).Tailor(cmd.Context(), jobDescription); err != nil {
		return err
	}

	after := ed.Snapshot()
	if err := writeJSON(tailorOutFile, after); err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintTailoring(before, after)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote tailored resume to %s\n", tailorOutFile)
	return nil
}
