package idea

import (
	"fmt"
	"strings"

	"github.com/contentgen/backend/internal/domain/idea"
	"github.com/contentgen/backend/internal/domain/news"
)

const contentExcerptLength = 800

const ideaPromptTemplate = `You are a creative content strategist for a viral video channel. Your goal is to generate engaging, creative video concepts that will capture attention on social media.

News Article:
Title: %s
Description: %s
Content: %s
Source: %s
Category: %s

Task: Generate %d creative, engaging video concepts (30-60 seconds each) based on this news article.%s

Requirements:
1. Each concept should be unique and creative
2. Focus on viral potential and entertainment value
3. Consider different angles: humor, drama, education, action, etc.
4. Generate specific, detailed video prompts suitable for AI video generation (Sora/Veo format)
5. Include visual descriptions, camera angles, mood, and style

Output Format (JSON array):
[
  {
    "title": "Catchy, clickbait-worthy title (max 60 chars)",
    "concept": "One-sentence description of the video concept",
    "video_prompt": "Detailed prompt for AI video generation with specific visual details, camera work, lighting, mood, style, and action",
    "style": "one of: %s",
    "estimated_duration": 45
  }
]

Example:
[
  {
    "title": "The Fall Heard Round the World",
    "concept": "Dramatic slow-motion recreation of a politician's stage fall with epic music",
    "video_prompt": "A politician in a dark suit dramatically falling in ultra slow motion on a grand stage with dramatic spotlights and moody cinematic lighting, epic orchestral music swelling, shot from multiple cinematic angles (low angle hero shot, overhead tracking shot), 4K cinematic quality, film grain texture, dramatic color grading with deep shadows and warm highlights",
    "style": "dramatic",
    "estimated_duration": 45
  }
]

Generate %d unique ideas now. Return ONLY the JSON array, no additional text.`

// BuildPrompt renders the idea generation prompt for an article
func BuildPrompt(article *news.Article, numIdeas int, styles []idea.Style) string {
	all := styleList(idea.Styles)

	guidance := "\nCreate a diverse mix of styles: " + all
	if len(styles) > 0 {
		guidance = "\nFocus on these styles: " + styleList(styles)
	}

	return fmt.Sprintf(ideaPromptTemplate,
		article.Title,
		orNA(article.Description),
		orNA(article.ContentExcerpt(contentExcerptLength)),
		article.Source,
		article.Category,
		numIdeas,
		guidance,
		all,
		numIdeas,
	)
}

func styleList(styles []idea.Style) string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
