package sentiment

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// Per-summary tone words. A summary counts once per family, however many
// words of that family it contains.
var positiveWords = []string{"growth", "profit", "gain", "strong", "beat", "record", "increase", "up", "surge", "improve"}

var negativeWords = []string{"loss", "decline", "drop", "fall", "down", "weak", "scandal", "cut", "negative", "decrease"}

// Tone labels returned by Label.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelMixed    = "mixed or neutral"
	LabelNoNews   = "no news"
)

// Label classifies a company's summaries by counting how many contain a
// positive word against how many contain a negative word.
func Label(summaries []models.Summary) string {
	if len(summaries) == 0 {
		return LabelNoNews
	}
	pos, neg := 0, 0
	for _, s := range summaries {
		text := strings.ToLower(s.Text)
		if containsAny(text, positiveWords) {
			pos++
		}
		if containsAny(text, negativeWords) {
			neg++
		}
	}
	switch {
	case pos > neg:
		return LabelPositive
	case neg > pos:
		return LabelNegative
	default:
		return LabelMixed
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Conclude renders a markdown block for one company: tone, key points and sources.
func Conclude(name string, summaries []models.Summary) string {
	if len(summaries) == 0 {
		return fmt.Sprintf("**%s:**\n_No recent news articles found for this stock. Please check back later or consider other sources._", name)
	}

	points := make([]string, len(summaries))
	var sources []string
	for i, s := range summaries {
		points[i] = "- " + s.Text
		if s.SourceURL != "" {
			sources = append(sources, fmt.Sprintf("- [Source %d](%s)", i+1, s.SourceURL))
		}
	}
	src := "_No sources available_"
	if len(sources) > 0 {
		src = strings.Join(sources, "\n")
	}

	return fmt.Sprintf("**%s:**\n**News sentiment:** %s.\n\n**Key News Points:**\n%s\n\n**Sources:**\n%s",
		name, capitalize(Label(summaries)), strings.Join(points, "\n"), src)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
