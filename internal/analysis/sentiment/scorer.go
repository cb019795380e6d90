package sentiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// ------------------------------------------------------------------
// Keyword-based scoring (offline, deterministic).
// Counts are non-overlapping substring occurrences over the lower-cased,
// space-joined summary texts of one company.
// ------------------------------------------------------------------

var growthKeywords = []string{
	"record", "growth", "soared", "profit", "surge", "beat", "increase", "expanding",
	"momentum", "innovation", "revenue", "up", "jump", "strong", "supremacy",
}

var stabilityKeywords = []string{
	"steady", "stable", "diversified", "consistent", "reliable", "long-term", "core",
	"retail", "telecom", "industrial", "operations",
}

var riskKeywords = []string{
	"volatile", "risk", "loss", "decline", "uncertain", "high expectations", "priced in", "sell-off",
}

// NoNewsNote is the score note for a company without summaries.
const NoNewsNote = "No recent news."

// NoRecommendation is returned when the best composite score is exactly zero.
const NoRecommendation = "No actionable investment recommendation can be made due to lack of recent news."

const recommendationDisclaimer = "*If you seek high growth and can tolerate volatility, consider the top pick. " +
	"For lower risk and steady performance, consider the alternative. " +
	"Always match your choice to your risk tolerance and investment goals.*"

// ScoreSummaries returns the keyword counts and composite for one company.
// Composite = growth + 0.5×stability − risk.
func ScoreSummaries(summaries []models.Summary) models.Score {
	if len(summaries) == 0 {
		return models.Score{Note: NoNewsNote}
	}

	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.Text
	}
	text := strings.ToLower(strings.Join(texts, " "))

	growth := countAll(text, growthKeywords)
	stable := countAll(text, stabilityKeywords)
	risk := countAll(text, riskKeywords)

	return models.Score{
		Growth:    growth,
		Stability: stable,
		Risk:      risk,
		Composite: float64(growth) + 0.5*float64(stable) - float64(risk),
		Note:      fmt.Sprintf("Growth: %d, Stability: %d, Risk: %d", growth, stable, risk),
	}
}

func countAll(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}

// Ranked is one company in ranking order.
type Ranked struct {
	Index int // position in the input
	Name  string
	Score models.Score
}

// Rank scores every profile from its summaries and sorts by composite,
// highest first. Equal composites keep input order.
func Rank(profiles []models.CompanyProfile) []Ranked {
	ranked := make([]Ranked, len(profiles))
	for i, p := range profiles {
		ranked[i] = Ranked{Index: i, Name: p.Name, Score: ScoreSummaries(p.Summaries)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score.Composite > ranked[b].Score.Composite
	})
	return ranked
}

// Recommend names the best company and, when there are at least two, the
// runner-up. A best composite of exactly zero yields NoRecommendation.
func Recommend(profiles []models.CompanyProfile) string {
	ranked := Rank(profiles)
	if len(ranked) == 0 || ranked[0].Score.Composite == 0 {
		return NoRecommendation
	}

	best := ranked[0]
	var sb strings.Builder
	sb.WriteString("**Investment Recommendation:**\n\n")
	fmt.Fprintf(&sb, "- **%s** shows the strongest positive signals in recent news (%s). ", best.Name, best.Score.Note)
	if len(ranked) > 1 {
		second := ranked[1]
		fmt.Fprintf(&sb, "\n- **%s** is also mentioned, but with less positive momentum (%s).", second.Name, second.Score.Note)
	}
	sb.WriteString("\n\n")
	sb.WriteString(recommendationDisclaimer)
	return sb.String()
}
