package types

// Patch is the partial document returned by the tailoring service. Field names follow the
// JSON contract the prompt asks the model to answer with.
type Patch struct {
	Summary    string            `json:"tailoredSummary"`
	Skills     []string          `json:"tailoredSkills"`
	Projects   []ProjectEntry    `json:"tailoredProjects"`
	Experience []ExperienceEntry `json:"tailoredExperience"`
}

// Keywords is the response of the keyword extraction call.
type Keywords struct {
	Keywords []string `json:"keywords"`
}

// Rating is the score and feedback returned for an uploaded resume.
type Rating struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}
