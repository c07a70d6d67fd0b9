// Package tailoring rewrites resume content towards a job description with a generative model
// and keeps the undo history of applied rewrites.
package tailoring

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const promptFile = "tailoring.json"

// Tailorer produces patches with two sequential model calls: keyword extraction on the
// lite tier, then the rewrite on the advanced tier.
type Tailorer struct {
	Client  llm.Client
	Verbose bool
}

// NewTailorer returns a Tailorer backed by client.
func NewTailorer(client llm.Client) *Tailorer {
	return &Tailorer{Client: client}
}

// resumeView is the part of the document the model is allowed to rewrite.
type resumeView struct {
	Summary    string                  `json:"summary"`
	Skills     []string                `json:"skills"`
	Projects   []types.ProjectEntry    `json:"projects"`
	Experience []types.ExperienceEntry `json:"experience,omitempty"`
}

// Tailor returns the rewrite of doc for jobDescription. Experience is only sent for templates
// that show it.
func (t *Tailorer) Tailor(ctx context.Context, doc *types.ResumeDocument, tmpl types.Template, jobDescription string) (*types.Patch, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrNoJobDescription
	}
	if doc == nil {
		doc = &types.ResumeDocument{}
	}

	keywords, err := t.ExtractKeywords(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	view := resumeView{
		Summary:  doc.Personal.Summary,
		Skills:   doc.Skills,
		Projects: doc.Projects,
	}
	if tmpl.ShowsExperience() {
		view.Experience = doc.Experience
	}
	resumeJSON, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, &ServiceError{Op: OpTailor, Message: TailorFailedMessage, Cause: err}
	}

	prompt, err := prompts.Render(promptFile, "tailor-resume", map[string]string{
		"Keywords":       strings.Join(keywords, ", "),
		"Resume":         string(resumeJSON),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, &ServiceError{Op: OpTailor, Message: TailorFailedMessage, Cause: err}
	}

	if t.Verbose {
		log.Printf("[TAILOR] rewriting with %s for keywords %v", t.Client.GetModel(llm.TierAdvanced), keywords)
	}

	response, err := t.Client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		log.Printf("[TAILOR] rewrite call failed: %v", err)
		return nil, &ServiceError{Op: OpTailor, Message: TailorFailedMessage, Cause: err}
	}

	patch, err := parsePatch(response)
	if err != nil {
		log.Printf("[TAILOR] rewrite response rejected: %v", err)
		return nil, &ServiceError{Op: OpTailor, Message: TailorFailedMessage, Cause: err}
	}
	return patch, nil
}

// ExtractKeywords asks the model for the core skills named by jobDescription.
func (t *Tailorer) ExtractKeywords(ctx context.Context, jobDescription string) ([]string, error) {
	prompt, err := prompts.Render(promptFile, "extract-keywords", map[string]string{
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, &ServiceError{Op: OpAnalyze, Message: AnalyzeFailedMessage, Cause: err}
	}

	response, err := t.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("[TAILOR] keyword call failed: %v", err)
		return nil, &ServiceError{Op: OpAnalyze, Message: AnalyzeFailedMessage, Cause: err}
	}

	var kw types.Keywords
	if err := llm.DecodeJSONObject(response, &kw); err != nil {
		log.Printf("[TAILOR] keyword response rejected: %v", err)
		return nil, &ServiceError{Op: OpAnalyze, Message: AnalyzeFailedMessage, Cause: err}
	}

	keywords := make([]string, 0, len(kw.Keywords))
	for _, k := range kw.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords, nil
}

func parsePatch(response string) (*types.Patch, error) {
	raw, err := llm.ExtractJSONObject(response)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidatePatchJSON([]byte(raw)); err != nil {
		return nil, err
	}
	var patch types.Patch
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		return nil, &llm.ParseError{Message: "response is not valid JSON", Cause: err}
	}
	return &patch, nil
}
