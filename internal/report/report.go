package report

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/seenimoa/stockcompare/internal/analysis/sentiment"
	"github.com/seenimoa/stockcompare/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator
// ════════════════════════════════════════════════════════════════════

// ReportFormat defines the output format for reports.
type ReportFormat string

const (
	FormatTerminal ReportFormat = "terminal"
	FormatText     ReportFormat = "text"
	FormatHTML     ReportFormat = "html"
	FormatJSON     ReportFormat = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTerminal, FormatText, FormatHTML, FormatJSON:
		return f, nil
	case "":
		return FormatTerminal, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want terminal, text, html or json)", s)
	}
}

// DefaultTitle heads every report unless overridden.
const DefaultTitle = "Stock News Comparison"

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Title    string         // report title (default: DefaultTitle)
	Location *time.Location // timezone for timestamps (default: local)
	ChartCfg ChartConfig    // chart rendering config
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:    DefaultTitle,
		Location: time.Local,
		ChartCfg: DefaultChartConfig(),
	}
}

// ReportData is the view model shared by the HTML and text renderers.
type ReportData struct {
	Title          string
	RunID          string
	GeneratedAt    string
	Notices        []NoticeRow
	Companies      []CompanyRow
	PriceChart     template.HTML
	ScoreChart     template.HTML
	Recommendation template.HTML
	RecommendText  string
}

// NoticeRow is one status line in the report.
type NoticeRow struct {
	Level   string
	Company string
	Message string
}

// CompanyRow holds the per-company section of a report.
type CompanyRow struct {
	Name        string
	Ticker      string
	Resolved    bool
	Sentiment   string
	Growth      int
	Stability   int
	Risk        int
	Composite   string
	Note        string
	LastClose   string
	Change      string
	ChangeClass string
	Summaries   []models.Summary
	Conclusion  template.HTML
	Markdown    string
}

var errNilComparison = errors.New("comparison is nil")

var reportTmpl = template.Must(template.New("report").Parse(ReportTemplate))

// GenerateHTML renders a self-contained HTML page for a comparison.
func GenerateHTML(cmp *models.Comparison, cfg ReportConfig) (string, error) {
	if cmp == nil {
		return "", errNilComparison
	}
	data, err := buildReportData(cmp, cfg)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a plain-text report for a comparison.
func GenerateText(cmp *models.Comparison, cfg ReportConfig) (string, error) {
	if cmp == nil {
		return "", errNilComparison
	}
	data, err := buildReportData(cmp, cfg)
	if err != nil {
		return "", err
	}
	return renderTextReport(data), nil
}

func buildReportData(cmp *models.Comparison, cfg ReportConfig) (ReportData, error) {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ChartCfg.Width == 0 {
		cfg.ChartCfg = DefaultChartConfig()
	}

	generated := cmp.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	d := ReportData{
		Title:         cfg.Title,
		RunID:         cmp.RunID,
		GeneratedAt:   generated.In(cfg.Location).Format("02 Jan 2006, 03:04 PM MST"),
		RecommendText: cmp.Recommendation,
	}

	for _, n := range cmp.Notices {
		d.Notices = append(d.Notices, NoticeRow{Level: string(n.Level), Company: n.Company, Message: n.Message})
	}

	for _, p := range cmp.Profiles {
		row := CompanyRow{
			Name:      p.Name,
			Ticker:    p.Ticker,
			Resolved:  p.TickerResolved,
			Sentiment: p.Sentiment,
			Growth:    p.Score.Growth,
			Stability: p.Score.Stability,
			Risk:      p.Score.Risk,
			Composite: fmt.Sprintf("%.1f", p.Score.Composite),
			Note:      p.Score.Note,
			Summaries: p.Summaries,
			Markdown:  sentiment.Conclude(p.Name, p.Summaries),
		}
		row.LastClose, row.Change, row.ChangeClass = priceChange(p.Prices)

		html, err := markdownToHTML(row.Markdown)
		if err != nil {
			return ReportData{}, err
		}
		row.Conclusion = html
		d.Companies = append(d.Companies, row)
	}

	rec, err := markdownToHTML(cmp.Recommendation)
	if err != nil {
		return ReportData{}, err
	}
	d.Recommendation = rec

	if len(cmp.Profiles) > 0 {
		d.PriceChart = template.HTML(PriceChart(cmp.Profiles, cfg.ChartCfg))
		scoreCfg := cfg.ChartCfg
		scoreCfg.Height = 80 + 50*len(cmp.Profiles)
		d.ScoreChart = template.HTML(ScoreChart(cmp.Profiles, scoreCfg))
	}
	return d, nil
}

// markdownToHTML converts markdown to HTML. Raw HTML in the source is not
// passed through, so user-entered company names cannot inject markup.
func markdownToHTML(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// priceChange returns the last close and the change over the window.
func priceChange(s models.PriceSeries) (last, change, class string) {
	var first, final float64
	for _, p := range s.Points {
		if p.Close == 0 {
			continue
		}
		if first == 0 {
			first = p.Close
		}
		final = p.Close
	}
	if final == 0 {
		return "", "", ""
	}
	last = fmt.Sprintf("%.2f", final)
	pct := (final - first) / first * 100
	change = fmt.Sprintf("%+.2f (%+.2f%%)", final-first, pct)
	switch {
	case pct > 0:
		class = "positive"
	case pct < 0:
		class = "negative"
	default:
		class = "neutral"
	}
	return last, change, class
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	fmt.Fprintf(&sb, "  %s\n", d.Title)
	fmt.Fprintf(&sb, "  Generated: %s | Run: %s\n", d.GeneratedAt, d.RunID)
	sb.WriteString(line + "\n")

	if len(d.Notices) > 0 {
		sb.WriteString("\n  ■ STATUS\n")
		for _, n := range d.Notices {
			fmt.Fprintf(&sb, "    [%s] %s\n", strings.ToUpper(n.Level), n.Message)
		}
		sb.WriteString(thinLine + "\n")
	}

	for _, c := range d.Companies {
		ticker := c.Ticker
		if !c.Resolved {
			ticker += ", unresolved"
		}
		fmt.Fprintf(&sb, "\n  ■ %s (%s)\n", c.Name, ticker)
		if c.LastClose != "" {
			fmt.Fprintf(&sb, "    Last close: %s | Change: %s\n", c.LastClose, c.Change)
		}
		fmt.Fprintf(&sb, "    Sentiment: %s | Composite: %s (%s)\n", c.Sentiment, c.Composite, c.Note)
		if len(c.Summaries) == 0 {
			sb.WriteString("    No recent news articles found.\n")
		}
		for i, s := range c.Summaries {
			fmt.Fprintf(&sb, "    %d. %s\n", i+1, s.Text)
			if s.SourceURL != "" {
				fmt.Fprintf(&sb, "       Source: %s\n", s.SourceURL)
			}
		}
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n  ★ RECOMMENDATION\n")
	for _, l := range strings.Split(plainMarkdown(d.RecommendText), "\n") {
		if l == "" {
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "  %s\n", l)
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Disclaimer: Generated from keyword counts over recent news headlines.\n")
	sb.WriteString("  Not financial advice.\n")
	sb.WriteString(line + "\n")

	return sb.String()
}

var emphasis = strings.NewReplacer("**", "")

// plainMarkdown drops bold markers and whole-line italics from markdown text.
func plainMarkdown(s string) string {
	lines := strings.Split(emphasis.Replace(s), "\n")
	for i, l := range lines {
		if len(l) > 1 && strings.HasPrefix(l, "*") && strings.HasSuffix(l, "*") {
			lines[i] = strings.Trim(l, "*")
		}
	}
	return strings.Join(lines, "\n")
}
