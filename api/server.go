// Package api provides the HTTP API server for stockcompare.
//
// It exposes endpoints for running comparisons, the individual lookups a
// comparison is built from, an HTML report, a price chart, and a WebSocket
// that streams notices while a comparison runs.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/stockcompare/internal/compare"
	"github.com/seenimoa/stockcompare/internal/config"
	"github.com/seenimoa/stockcompare/internal/datasource"
	"github.com/seenimoa/stockcompare/internal/report"
	"github.com/seenimoa/stockcompare/pkg/models"
	"github.com/seenimoa/stockcompare/web"
)

// Version is reported by the health endpoint. The CLI overrides it at startup.
var Version = "dev"

const (
	compareTimeout = 5 * time.Minute
	lookupTimeout  = 30 * time.Second
	maxBodyBytes   = 1 << 16
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipeline *compare.Pipeline
	wsHub    *WSHub
	serveUI  bool // when true, serve the embedded form at /
}

// NewServer creates a configured API server backed by the configured providers.
func NewServer(cfg *config.Config) (*Server, error) {
	p, err := compare.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline setup failed: %w", err)
	}
	return NewServerWithPipeline(cfg, p), nil
}

// NewServerWithPipeline creates a server around an existing pipeline.
func NewServerWithPipeline(cfg *config.Config, p *compare.Pipeline) *Server {
	srv := &Server{
		cfg:      cfg,
		pipeline: p,
		wsHub:    NewWSHub(),
		serveUI:  true,
	}
	srv.router = srv.buildRouter()
	return srv
}

// SetServeUI controls whether the embedded form is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: compareTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-done:
	}
	slog.Info("shutting down api server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if s.cfg != nil && len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// The WebSocket outlives any request timeout.
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(compareTimeout))

			r.Get("/health", s.handleHealth)
			r.Get("/status", s.handleStatus)

			r.Post("/compare", s.handleCompare)

			r.Get("/ticker/{name}", s.handleTicker)
			r.Get("/news/{name}", s.handleNews)
			r.Get("/prices/{ticker}", s.handlePrices)

			r.Get("/report", s.handleReport)
			r.Post("/report", s.handleReport)
			r.Get("/chart.svg", s.handlePriceChart)
		})
	})

	if s.serveUI {
		r.Get("/", handleIndex)
	}

	return r
}

// handleIndex serves the embedded comparison form.
func handleIndex(w http.ResponseWriter, _ *http.Request) {
	page := web.IndexHTML()
	if page == nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(page) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TickerResult is returned by the ticker endpoint.
type TickerResult struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// NewsResult is returned by the news endpoint.
type NewsResult struct {
	Name      string           `json:"name"`
	Source    string           `json:"source"`
	Summaries []models.Summary `json:"summaries"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":     "ok",
			"version":    Version,
			"time":       time.Now().Format(time.RFC3339),
			"ws_clients": s.wsHub.ClientCount(),
		},
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compare.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmp, err := s.runComparison(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    cmp,
	})
}

// runComparison runs the pipeline and announces the finished run to all
// WebSocket clients.
func (s *Server) runComparison(ctx context.Context, req compare.Request, opts ...compare.RunOption) (*models.Comparison, error) {
	ctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()

	cmp, err := s.pipeline.Run(ctx, req, opts...)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cmp.Profiles))
	for i, p := range cmp.Profiles {
		names[i] = p.Name
	}
	s.wsHub.Broadcast(WSMessage{
		Type: "comparison_complete",
		Data: map[string]interface{}{
			"run_id":    cmp.RunID,
			"companies": names,
		},
	})
	return cmp, nil
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
	defer cancel()

	ticker, err := s.pipeline.Resolver.Resolve(ctx, name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    TickerResult{Name: name, Ticker: ticker},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), compareTimeout)
	defer cancel()

	items, err := s.pipeline.News.FetchNews(ctx, name)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	summaries := s.pipeline.Summarizer.Summarize(ctx, items)
	if summaries == nil {
		summaries = []models.Summary{}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    NewsResult{Name: name, Source: s.pipeline.News.Name(), Summaries: summaries},
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), lookupTimeout)
	defer cancel()

	series, err := s.pipeline.Prices.FetchCloses(ctx, ticker)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    series,
	})
}

// handleReport runs a comparison for the "name" parameters (query string or
// form body) and renders the HTML report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	cmp, err := s.runComparison(r.Context(), compare.Request{Names: r.Form["name"]})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	html, err := report.GenerateHTML(cmp, report.DefaultReportConfig())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html)) //nolint:errcheck
}

// handlePriceChart resolves each name and plots its closes without fetching news.
func (s *Server) handlePriceChart(w http.ResponseWriter, r *http.Request) {
	req, err := compare.Request{Names: r.URL.Query()["name"]}.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), compareTimeout)
	defer cancel()

	profiles := make([]models.CompanyProfile, 0, len(req.Names))
	for _, name := range req.Names {
		ticker, err := s.pipeline.Resolver.Resolve(ctx, name)
		if err != nil || ticker == "" {
			ticker = compare.FallbackTicker(name)
		}
		series, err := s.pipeline.Prices.FetchCloses(ctx, ticker)
		if err != nil {
			slog.Warn("chart price fetch failed", "ticker", ticker, "err", err)
		}
		profiles = append(profiles, models.CompanyProfile{Name: name, Ticker: ticker, Prices: series})
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.PriceChart(profiles, report.DefaultChartConfig()))) //nolint:errcheck
}

// statusFor maps pipeline and data source errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, compare.ErrNoCompanies), errors.Is(err, compare.ErrTooManyCompanies):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrTickerNotFound), errors.Is(err, datasource.ErrNoPriceData):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, datasource.ErrNetwork), errors.Is(err, datasource.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
