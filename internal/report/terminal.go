package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// Terminal styles
var (
	termTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	termCompanyStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#3B82F6")).
				Padding(0, 1).
				Width(78)

	termRecStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1).
			Width(78)

	termHeadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	termMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	termUp        = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	termDown      = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	noticeStyles = map[models.NoticeLevel]lipgloss.Style{
		models.NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		models.NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		models.NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		models.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
	}
)

var noticeIcons = map[models.NoticeLevel]string{
	models.NoticeInfo:    "i",
	models.NoticeSuccess: "✓",
	models.NoticeWarning: "!",
	models.NoticeError:   "✗",
}

// Terminal renders a comparison for an interactive terminal.
func Terminal(cmp *models.Comparison) string {
	if cmp == nil {
		return ""
	}
	var blocks []string
	blocks = append(blocks, termTitleStyle.Render(DefaultTitle))

	if len(cmp.Notices) > 0 {
		var lines []string
		for _, n := range cmp.Notices {
			style, ok := noticeStyles[n.Level]
			if !ok {
				style = termMuted
			}
			lines = append(lines, style.Render(fmt.Sprintf("%s %s", noticeIcons[n.Level], n.Message)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, p := range cmp.Profiles {
		blocks = append(blocks, termCompanyStyle.Render(companyBlock(p)))
	}

	rec := cmp.Recommendation
	if rec == "" {
		rec = "No recommendation."
	}
	blocks = append(blocks, termRecStyle.Render(plainMarkdown(rec)))

	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
}

func companyBlock(p models.CompanyProfile) string {
	var sb strings.Builder
	ticker := p.Ticker
	if !p.TickerResolved {
		ticker += " (unresolved)"
	}
	sb.WriteString(termHeadStyle.Render(fmt.Sprintf("%s · %s", p.Name, ticker)))
	sb.WriteString("\n")

	if last, change, class := priceChange(p.Prices); last != "" {
		style := termMuted
		switch class {
		case "positive":
			style = termUp
		case "negative":
			style = termDown
		}
		fmt.Fprintf(&sb, "Close %s %s  %s\n", last, style.Render(change), Sparkline(p.Prices.Closes()))
	} else {
		sb.WriteString(termMuted.Render("No price data") + "\n")
	}

	fmt.Fprintf(&sb, "Sentiment: %s · Score %.1f (%s)\n", p.Sentiment, p.Score.Composite, p.Score.Note)
	if len(p.Summaries) == 0 {
		sb.WriteString(termMuted.Render("No recent news articles found."))
		return sb.String()
	}
	for i, s := range p.Summaries {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, s.Text)
		if s.SourceURL != "" {
			sb.WriteString("\n   " + termMuted.Render(s.SourceURL))
		}
	}
	return sb.String()
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a one-line bar sparkline. Zero values are
// treated as missing and drawn as spaces.
func Sparkline(values []float64) string {
	lo, hi := 0.0, 0.0
	first := true
	for _, v := range values {
		if v == 0 {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var sb strings.Builder
	for _, v := range values {
		switch {
		case v == 0:
			sb.WriteRune(' ')
		case hi == lo:
			sb.WriteRune(sparkTicks[len(sparkTicks)/2])
		default:
			idx := int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
			sb.WriteRune(sparkTicks[idx])
		}
	}
	return sb.String()
}
