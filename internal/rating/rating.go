// Package rating scores an uploaded PDF resume with a generative model.
package rating

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// User-facing messages.
const (
	OnlyPDFMessage    = "Only PDF files are allowed."
	NoFileMessage     = "Please upload a resume first."
	RateFailedMessage = "Failed to rate resume. Please try again."
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Error reports a rejected upload or a failed rating call.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type modelRating struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Rate extracts the text of a PDF resume and asks the model for a score and feedback.
// The score is rounded and clamped to [0, 100].
func Rate(ctx context.Context, client llm.Client, filename string, data []byte) (*types.Rating, error) {
	if len(data) == 0 {
		return nil, &Error{Message: NoFileMessage}
	}
	if ingestion.FormatOf(filename) != ingestion.FormatPDF {
		return nil, &Error{Message: OnlyPDFMessage}
	}

	text, err := ingestion.ExtractText(filename, data)
	if err != nil {
		return nil, &Error{Message: RateFailedMessage, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Message: RateFailedMessage, Cause: fmt.Errorf("no text found in %s", filename)}
	}

	prompt, err := prompts.Render("rating.json", "rate-resume", map[string]string{"Resume": text})
	if err != nil {
		return nil, &Error{Message: RateFailedMessage, Cause: err}
	}
	response, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("[RATE] rating call failed: %v", err)
		return nil, &Error{Message: RateFailedMessage, Cause: err}
	}

	var r modelRating
	if err := llm.DecodeJSONObject(response, &r); err != nil {
		log.Printf("[RATE] rating response rejected: %v", err)
		return nil, &Error{Message: RateFailedMessage, Cause: err}
	}

	return &types.Rating{
		Score:    ClampScore(r.Score),
		Feedback: strings.TrimSpace(r.Feedback),
	}, nil
}

// ClampScore rounds s to the nearest integer within [MinScore, MaxScore].
func ClampScore(s float64) int {
	if math.IsNaN(s) {
		return MinScore
	}
	return int(math.Max(MinScore, math.Min(MaxScore, math.Round(s))))
}
