package video

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Model identifiers accepted by the router
const (
	ModelAuto     = "auto"
	ModelSora2    = "sora-2"
	ModelSora2Pro = "sora-2-pro"
	ModelVeo31    = "veo-3.1"
	ModelWan25    = "wan-2.5"
)

// Provider keys, also used to group available models
const (
	ProviderSora   = "sora"
	ProviderKieVeo = "kie-veo"
	ProviderKieWan = "kie-wan"
)

// ModelInfo describes pricing and capabilities of a model
type ModelInfo struct {
	Model       string          `json:"model"`
	Name        string          `json:"name"`
	Provider    string          `json:"provider"`
	CostPer10s  decimal.Decimal `json:"cost_per_10s"`
	MaxDuration int             `json:"max_duration"`
	Resolutions []string        `json:"resolutions"`
	Features    []string        `json:"features,omitempty"`
	Description string          `json:"description,omitempty"`
}

var catalog = map[string]ModelInfo{
	ModelSora2: {
		Model:       ModelSora2,
		Name:        "Sora 2",
		Provider:    "OpenAI",
		CostPer10s:  decimal.RequireFromString("0.15"),
		MaxDuration: 12,
		Resolutions: []string{"1280x720", "720x1280", "1024x1792", "1792x1024"},
		Description: "Fast, general-purpose video generation",
	},
	ModelSora2Pro: {
		Model:       ModelSora2Pro,
		Name:        "Sora 2 Pro",
		Provider:    "OpenAI",
		CostPer10s:  decimal.RequireFromString("0.30"),
		MaxDuration: 12,
		Resolutions: []string{"1280x720", "720x1280", "1024x1792", "1792x1024"},
		Description: "High-quality, creative video generation",
	},
	ModelVeo31: {
		Model:       ModelVeo31,
		Name:        "Veo 3.1",
		Provider:    "Google (via Kie.ai)",
		CostPer10s:  decimal.RequireFromString("0.10"),
		MaxDuration: 10,
		Resolutions: []string{"720p", "1080p"},
		Description: "Cinematic, realistic video generation",
	},
	ModelWan25: {
		Model:       ModelWan25,
		Name:        "Wan 2.5",
		Provider:    "Alibaba (via Kie.ai)",
		CostPer10s:  decimal.RequireFromString("0.08"),
		MaxDuration: 10,
		Resolutions: []string{"720p", "1080p"},
		Features:    []string{"lip-sync", "image-to-video", "prompt-expansion"},
		Description: "Image-to-video with lip-sync and human subjects",
	},
}

// UnknownProvider is reported for models outside the catalog
const UnknownProvider = "Unknown"

// LookupModel returns catalog information. Unknown models report
// UnknownProvider and a zero cost.
func LookupModel(model string) ModelInfo {
	if info, ok := catalog[strings.ToLower(model)]; ok {
		return info
	}
	return ModelInfo{
		Model:       model,
		Name:        model,
		Provider:    UnknownProvider,
		CostPer10s:  decimal.Zero,
		Description: "No information available",
	}
}

// EstimateCost returns the price of a clip of the given length, rounded to cents
func EstimateCost(model string, seconds int) decimal.Decimal {
	info := LookupModel(model)
	return info.CostPer10s.
		Mul(decimal.NewFromInt(int64(seconds))).
		Div(decimal.NewFromInt(10)).
		Round(2)
}
