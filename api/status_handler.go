package api

import (
	"net/http"

	"github.com/seenimoa/stockcompare/internal/config"
)

// StatusResponse is the JSON body returned by GET /api/v1/status.
type StatusResponse struct {
	NewsProvider    string             `json:"news_provider"`
	PriceProvider   string             `json:"price_provider"`
	Summarizer      string             `json:"summarizer"`
	Concurrency     int                `json:"concurrency"`
	Keys            []config.KeyStatus `json:"keys"`
	MissingRequired []string           `json:"missing_required,omitempty"`
}

// handleStatus reports the active providers and the status of every API key.
// Keys are masked; raw secrets never leave the process.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.cfg == nil {
		writeError(w, http.StatusServiceUnavailable, "configuration not loaded")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    buildStatus(s.cfg),
	})
}

func buildStatus(cfg *config.Config) StatusResponse {
	keys := config.CheckAPIKeys(cfg)
	resp := StatusResponse{
		NewsProvider:  cfg.News.Provider,
		PriceProvider: cfg.Prices.Provider,
		Summarizer:    cfg.Summarizer.Strategy,
		Concurrency:   cfg.Compare.Concurrency,
		Keys:          keys,
	}
	for _, k := range keys {
		if k.Required && !k.IsSet {
			resp.MissingRequired = append(resp.MissingRequired, k.Name)
		}
	}
	return resp
}
