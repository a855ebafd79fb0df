package publishing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/contentgen/backend/internal/domain/publishing"
)

// PlatformGuidelines are the content limits and conventions of a platform
type PlatformGuidelines struct {
	TitleMaxLength       int               `json:"title_max_length,omitempty"`
	DescriptionMaxLength int               `json:"description_max_length,omitempty"`
	MaxTags              int               `json:"max_tags,omitempty"`
	TagMaxLength         int               `json:"tag_max_length,omitempty"`
	MaxHashtags          int               `json:"max_hashtags,omitempty"`
	TagRules             []string          `json:"tag_rules,omitempty"`
	BestPractices        []string          `json:"best_practices,omitempty"`
	Categories           map[string]string `json:"categories,omitempty"`
}

var guidelines = map[publishing.Platform]PlatformGuidelines{
	publishing.PlatformYouTube: {
		TitleMaxLength:       100,
		DescriptionMaxLength: 5000,
		MaxTags:              20,
		TagMaxLength:         30,
		TagRules: []string{
			"Each tag MUST be 30 characters or less",
			"NO commas, angle brackets, or special characters",
			"Use single words or short phrases",
			"15-20 tags is optimal",
			"Tags are case-insensitive",
		},
		BestPractices: []string{
			"Front-load keywords in title",
			"Use timestamps in description",
			"Include relevant hashtags (3-5)",
			"Add call-to-action (CTA)",
			"Optimize for search (SEO)",
		},
		Categories: map[string]string{
			"1":  "Film & Animation",
			"2":  "Autos & Vehicles",
			"10": "Music",
			"15": "Pets & Animals",
			"17": "Sports",
			"19": "Travel & Events",
			"20": "Gaming",
			"22": "People & Blogs",
			"23": "Comedy",
			"24": "Entertainment",
			"25": "News & Politics",
			"26": "Howto & Style",
			"27": "Education",
			"28": "Science & Technology",
		},
	},
	publishing.PlatformTikTok: {
		TitleMaxLength:       150,
		DescriptionMaxLength: 2200,
		MaxHashtags:          5,
		BestPractices: []string{
			"Hook viewers in first 3 seconds",
			"Use trending sounds/hashtags",
			"Keep it short and engaging",
			"Add captions for accessibility",
			"Use 3-5 relevant hashtags",
		},
	},
	publishing.PlatformInstagram: {
		TitleMaxLength:       30,
		DescriptionMaxLength: 2200,
		MaxHashtags:          30,
		BestPractices: []string{
			"First line is critical (preview)",
			"Use line breaks for readability",
			"Place hashtags at end",
			"Include call-to-action",
			"Use 8-15 hashtags optimally",
		},
	},
}

// GuidelinesFor returns the guidelines of p. Platforms without guidelines
// get the zero value.
func GuidelinesFor(p publishing.Platform) PlatformGuidelines {
	return guidelines[p]
}

func (g PlatformGuidelines) titleMax() int {
	return orDefault(g.TitleMaxLength, 100)
}

func (g PlatformGuidelines) descriptionMax() int {
	return orDefault(g.DescriptionMaxLength, 5000)
}

func (g PlatformGuidelines) tagCount() int {
	if g.MaxTags > 0 {
		return g.MaxTags
	}
	return orDefault(g.MaxHashtags, 20)
}

func (g PlatformGuidelines) tagLength() int {
	return orDefault(g.TagMaxLength, 30)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

const metadataSystemPrompt = `You are an expert social media content strategist specializing in %[1]s optimization.

Your task is to generate highly engaging, SEO-optimized metadata for video content that maximizes views, engagement, and discoverability on %[1]s.

Platform Guidelines:
%[2]s

Key Principles:
1. Create attention-grabbing titles that drive clicks
2. Write descriptions that provide value and context
3. Use tags/hashtags strategically for discoverability
4. Follow platform best practices
5. Optimize for search and recommendations
6. Match the tone to the target audience
7. Include relevant CTAs

CRITICAL Tag Requirements for YouTube:
- Each tag MUST be 30 characters or less
- NO commas, angle brackets, or special characters in tags
- Use simple words or short phrases only
- Generate 15-20 tags maximum
- Example valid tags: ["AI video", "technology", "robotics", "future tech", "innovation"]
- Example INVALID tags: ["AI video, technology", "this is a very long tag that exceeds thirty character limit", "tech<>"]

Output Format:
You MUST respond with a valid JSON object containing:
{
    "title": "Engaging title here",
    "description": "Detailed description here",
    "tags": ["tag1", "tag2", "tag3"],
    "category": "category name",
    "category_id": "22",
    "privacy": "public",
    "made_for_kids": false,
    "allow_duet": true,
    "allow_stitch": true,
    "allow_comments": true,
    "share_to_feed": true
}

Include all relevant fields for %[1]s based on the guidelines above.`

// BuildSystemPrompt renders the metadata system prompt for p
func BuildSystemPrompt(p publishing.Platform, g PlatformGuidelines) string {
	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		raw = []byte("{}")
	}
	return fmt.Sprintf(metadataSystemPrompt, p, raw)
}

// promptContext is what the language model is told about the video
type promptContext struct {
	VideoPrompt    string
	ArticleContext string
	TargetAudience string
	Tone           string
}

// BuildUserPrompt renders the metadata request for one video
func BuildUserPrompt(p publishing.Platform, g PlatformGuidelines, pc promptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate optimized metadata for a video that will be published on %s.\n\n", p)

	section := func(heading, body string) {
		if body != "" {
			fmt.Fprintf(&b, "%s:\n%s\n\n", heading, body)
		}
	}
	section("Video Content Description", pc.VideoPrompt)
	section("Source Article Context", pc.ArticleContext)
	section("Target Audience", pc.TargetAudience)
	section("Desired Tone", pc.Tone)

	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Title: Max %d characters, attention-grabbing\n", g.titleMax())
	fmt.Fprintf(&b, "- Description: Max %d characters, informative and engaging\n", g.descriptionMax())
	fmt.Fprintf(&b, "- Tags: Generate %d tags maximum\n", g.tagCount())
	fmt.Fprintf(&b, "- Each tag MUST be %d characters or less\n", g.tagLength())
	b.WriteString("- Tags must NOT contain commas, special characters, or be overly long\n")
	b.WriteString("- Use simple, searchable keywords and phrases\n\n")
	b.WriteString("Generate the metadata in the exact JSON format specified in the system prompt.")
	return b.String()
}
