package models

import "time"

// Score holds keyword counts for a company and the derived composite.
type Score struct {
	Growth    int     `json:"growth"`
	Stability int     `json:"stability"`
	Risk      int     `json:"risk"`
	Composite float64 `json:"composite"`
	Note      string  `json:"note"`
}

// CompanyProfile is everything gathered for one user-entered company name.
// Name is the raw input and stays the lookup key for scoring.
type CompanyProfile struct {
	Name           string      `json:"name"`
	Ticker         string      `json:"ticker"`
	TickerResolved bool        `json:"ticker_resolved"`
	Summaries      []Summary   `json:"summaries"`
	Prices         PriceSeries `json:"prices"`
	Score          Score       `json:"score"`
	Sentiment      string      `json:"sentiment"`
}

// NoticeLevel classifies a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a per-company status line surfaced to the user instead of
// failing the run.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Company string      `json:"company,omitempty"`
	Message string      `json:"message"`
}

// Comparison is the outcome of one comparison run. Profiles keep input order.
type Comparison struct {
	RunID          string           `json:"run_id"`
	Profiles       []CompanyProfile `json:"profiles"`
	Notices        []Notice         `json:"notices"`
	Recommendation string           `json:"recommendation"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// Profile returns the first profile with the given input name.
func (c *Comparison) Profile(name string) (*CompanyProfile, bool) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}
