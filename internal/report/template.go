package report

// ReportTemplate is the HTML template for the comparison report.
// It is a Go constant so the binary needs no template files at runtime.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  p { margin: 6px 0; }
  ul { margin: 6px 0 6px 20px; }
  a { color: var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .positive { color: var(--green); }
  .negative { color: var(--red); }
  .neutral { color: var(--muted); }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-right { text-align: right; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 1px 10px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 0.95rem;
    margin-left: 8px;
  }
  .ticker-badge.unresolved { background: var(--orange); }

  .notice {
    padding: 6px 12px;
    border-radius: 4px;
    margin: 4px 0;
    font-size: 0.9rem;
  }
  .notice.info { background: #eff6ff; border-left: 4px solid var(--accent); }
  .notice.success { background: #dcfce7; border-left: 4px solid var(--green); }
  .notice.warning { background: #fefce8; border-left: 4px solid #eab308; }
  .notice.error { background: #fef2f2; border-left: 4px solid var(--red); }

  .company-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(420px, 1fr));
    gap: 16px;
  }
  .company {
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 12px 16px;
  }
  .stat-row { display: flex; gap: 16px; flex-wrap: wrap; margin: 6px 0; font-size: 0.9rem; }
  .stat-row .label { color: var(--muted); text-transform: uppercase; font-size: 0.75rem; }
  .stat-row .value { font-weight: 600; }

  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }

  .chart-container { margin: 12px 0; overflow-x: auto; }
  .chart-container svg { max-width: 100%; height: auto; }

  .section { margin: 20px 0; }
  .section-summary {
    background: var(--section-bg);
    padding: 12px;
    border-radius: 6px;
    margin: 8px 0;
    font-size: 0.95rem;
    line-height: 1.7;
  }

  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .section, .company { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <div>
    <h1>{{.Title}}</h1>
    <p class="muted">{{len .Companies}} companies compared</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
    <p class="muted">Run {{.RunID}}</p>
  </div>
</div>

<!-- ═══════ NOTICES ═══════ -->
{{if .Notices}}
<div class="section">
  <h2>Status</h2>
  {{range .Notices}}<div class="notice {{.Level}}">{{.Message}}</div>
  {{end}}
</div>
{{end}}

<!-- ═══════ SCORES ═══════ -->
{{if .Companies}}
<div class="section">
  <h2>Keyword Scores</h2>
  <table>
    <thead><tr><th>Company</th><th>Ticker</th><th>Growth</th><th>Stability</th><th>Risk</th><th>Composite</th><th>Sentiment</th></tr></thead>
    <tbody>
    {{range .Companies}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.Ticker}}</td>
      <td>{{.Growth}}</td>
      <td>{{.Stability}}</td>
      <td>{{.Risk}}</td>
      <td>{{.Composite}}</td>
      <td>{{.Sentiment}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
  {{if .ScoreChart}}<div class="chart-container">{{.ScoreChart}}</div>{{end}}
</div>
{{end}}

<!-- ═══════ PRICE CHART ═══════ -->
{{if .PriceChart}}
<div class="section">
  <h2>Price Chart</h2>
  <div class="chart-container">{{.PriceChart}}</div>
</div>
{{end}}

<!-- ═══════ COMPANIES ═══════ -->
{{if .Companies}}
<div class="section">
  <h2>Company News</h2>
  <div class="company-grid">
  {{range .Companies}}
    <div class="company">
      <h3>{{.Name}}<span class="ticker-badge{{if not .Resolved}} unresolved{{end}}">{{.Ticker}}</span></h3>
      {{if .LastClose}}
      <div class="stat-row">
        <div><div class="label">Last Close</div><div class="value">{{.LastClose}}</div></div>
        <div><div class="label">Change</div><div class="value {{.ChangeClass}}">{{.Change}}</div></div>
      </div>
      {{end}}
      {{if .Summaries}}
      <ul>
        {{range .Summaries}}<li>{{.Text}}{{if .SourceURL}} <a href="{{.SourceURL}}" target="_blank" rel="noopener">[Source]</a>{{end}}</li>
        {{end}}
      </ul>
      {{else}}
      <p class="muted">No recent news articles found.</p>
      {{end}}
      <div class="section-summary">{{.Conclusion}}</div>
    </div>
  {{end}}
  </div>
</div>
{{end}}

<!-- ═══════ RECOMMENDATION ═══════ -->
<div class="section">
  <h2>Recommendation</h2>
  <div class="section-summary">{{.Recommendation}}</div>
</div>

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p><strong>Disclaimer:</strong> Scores are keyword counts over recent news headlines.
  This page is for informational purposes only and does not constitute financial advice.</p>
  <p>Generated on {{.GeneratedAt}}</p>
</div>

</body>
</html>`
