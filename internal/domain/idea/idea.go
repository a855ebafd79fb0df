package idea

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contentgen/backend/internal/domain/shared"
)

// Style is the creative treatment of a video idea
type Style string

const (
	StyleComedic     Style = "comedic"
	StyleDramatic    Style = "dramatic"
	StyleSatirical   Style = "satirical"
	StyleEducational Style = "educational"
	StyleAction      Style = "action"
	StyleSlowMotion  Style = "slow_motion"
	StyleDocumentary Style = "documentary"
	StyleMeme        Style = "meme"
)

// Styles lists every supported style
var Styles = []Style{
	StyleComedic, StyleDramatic, StyleSatirical, StyleEducational,
	StyleAction, StyleSlowMotion, StyleDocumentary, StyleMeme,
}

// IsValid reports whether s is a supported style
func (s Style) IsValid() bool {
	for _, known := range Styles {
		if s == known {
			return true
		}
	}
	return false
}

const (
	MaxTitleLength      = 200
	MaxApprovedByLength = 100
	DefaultDuration     = 45
	MinDuration         = 10
	MaxDuration         = 120
)

// Idea is a generated short-video concept tied to a news article
type Idea struct {
	ID                uuid.UUID
	ArticleID         uuid.UUID
	Title             string
	Concept           string
	VideoPrompt       string
	Style             Style
	EstimatedDuration int
	IsApproved        bool
	ApprovedBy        string
	ApprovedAt        *time.Time
	CreatedAt         time.Time
}

// Draft is an idea as produced by the language model
type Draft struct {
	Title             string `json:"title"`
	Concept           string `json:"concept"`
	VideoPrompt       string `json:"video_prompt"`
	Style             Style   `json:"style"`
	EstimatedDuration Seconds `json:"estimated_duration"`
}

// Seconds is a duration in whole seconds as written by a language model.
// It decodes from integers, fractional numbers (rounded), numeric strings
// and strings with an "s" suffix. Anything else decodes to zero, which
// NewIdea turns into DefaultDuration.
type Seconds int

// UnmarshalJSON implements json.Unmarshaler
func (s *Seconds) UnmarshalJSON(data []byte) error {
	*s = 0
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		data = []byte(strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "s"))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*s = Seconds(math.Round(f))
	return nil
}

// NewIdea builds an idea from a draft. Unknown styles fall back to
// fallbackStyle and the duration is clamped to MinDuration..MaxDuration.
func NewIdea(articleID uuid.UUID, d Draft, fallbackStyle Style) (*Idea, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, shared.InvalidInputf("idea title is required")
	}
	if strings.TrimSpace(d.VideoPrompt) == "" {
		return nil, shared.InvalidInputf("idea video_prompt is required")
	}

	style := Style(strings.ToLower(strings.TrimSpace(string(d.Style))))
	if !style.IsValid() {
		style = fallbackStyle
	}

	return &Idea{
		ID:                uuid.New(),
		ArticleID:         articleID,
		Title:             truncate(title, MaxTitleLength),
		Concept:           strings.TrimSpace(d.Concept),
		VideoPrompt:       strings.TrimSpace(d.VideoPrompt),
		Style:             style,
		EstimatedDuration: ClampDuration(int(d.EstimatedDuration)),
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// ClampDuration applies the default and the allowed duration range
func ClampDuration(seconds int) int {
	switch {
	case seconds == 0:
		return DefaultDuration
	case seconds < MinDuration:
		return MinDuration
	case seconds > MaxDuration:
		return MaxDuration
	default:
		return seconds
	}
}

// SetApproval records an approval decision. ApprovedAt is set only when
// approved; revoking approval clears it.
func (i *Idea) SetApproval(approved bool, by string, now time.Time) {
	i.IsApproved = approved
	if by != "" {
		i.ApprovedBy = truncate(by, MaxApprovedByLength)
	}
	if approved {
		t := now.UTC()
		i.ApprovedAt = &t
		return
	}
	i.ApprovedAt = nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
