package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/llm/llmtest"
	"github.com/jonathan/resume-builder/internal/rasterize"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct{}

func (fakeRasterizer) Capture(_ context.Context, _ string, _ rasterize.Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 794, 1123))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// useFakes swaps the model client and rasterizer for the duration of a test.
func useFakes(t *testing.T, client *llmtest.Client) {
	t.Helper()
	origLLM, origRaster := newLLMClient, newRasterizer
	newLLMClient = func(context.Context, *config.Config) (llm.Client, error) { return client, nil }
	newRasterizer = func(*config.Config) rasterize.Rasterizer { return fakeRasterizer{} }
	t.Cleanup(func() {
		newLLMClient, newRasterizer = origLLM, origRaster
	})
}

// resetFlags restores every flag to its default so one test's flags do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI in-process and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func validDocument() types.ResumeDocument {
	return types.ResumeDocument{
		Personal: types.Personal{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Phone:   "123-456-7890",
			Address: "London",
			Summary: "Analyst",
		},
		Skills: []string{"Go", "SQL"},
		Experience: []types.ExperienceEntry{{
			JobTitle:  "Engineer",
			Company:   "Acme",
			StartDate: "01/2020",
			EndDate:   "02/2022",
			Location:  "Remote",
			Tasks:     []string{"Shipped the thing"},
		}},
		Projects: []types.ProjectEntry{{Name: "Engine", Tasks: []string{"Designed it"}}},
		Education: []types.EducationEntry{{
			Institution:    "University of London",
			GraduationDate: "06/2015",
			Course:         "Mathematics",
		}},
	}
}

func writeDocument(t *testing.T, doc types.ResumeDocument) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readDocumentFile(t *testing.T, path string) types.ResumeDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}
