// Package llm provides the generative-AI client used for tailoring, import and rating,
// plus helpers to pull structured JSON out of model responses.
package llm

// ModelTier picks a model by how demanding the task is.
type ModelTier string

const (
	TierLite     ModelTier = "lite"     // keyword extraction
	TierStandard ModelTier = "standard" // resume parsing and rating
	TierAdvanced ModelTier = "advanced" // tailoring rewrites
)

// Tiers lists every tier from cheapest to most capable.
var Tiers = []ModelTier{TierLite, TierStandard, TierAdvanced}

// DefaultTemperature keeps answers stable between calls.
const DefaultTemperature float32 = 0.1

// Config selects the Gemini models per tier.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini 2.5 family.
func DefaultConfig() Config {
	return Config{
		Temperature: DefaultTemperature,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Model returns the model for tier. A tier without a model borrows from the next cheaper
// configured tier, then from any configured tier.
func (c Config) Model(tier ModelTier) string {
	if m := c.Models[tier]; m != "" {
		return m
	}
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i] == tier {
			continue
		}
		if m := c.Models[Tiers[i]]; m != "" && tierRank(Tiers[i]) < tierRank(tier) {
			return m
		}
	}
	for _, t := range Tiers {
		if m := c.Models[t]; m != "" {
			return m
		}
	}
	return ""
}

func tierRank(t ModelTier) int {
	for i, tt := range Tiers {
		if tt == t {
			return i
		}
	}
	return len(Tiers)
}

// Pin returns a copy of c that uses model for the given tiers, or for every tier when none
// are given.
func (c Config) Pin(model string, tiers ...ModelTier) Config {
	if len(tiers) == 0 {
		tiers = Tiers
	}
	models := make(map[ModelTier]string, len(c.Models)+len(tiers))
	for t, m := range c.Models {
		models[t] = m
	}
	for _, t := range tiers {
		models[t] = model
	}
	c.Models = models
	return c
}

func (c Config) temperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}
