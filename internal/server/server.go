// Package server exposes the spell checker over HTTP.
//
// The JSON API:
//
//	POST   /v1/check            — correct a text, listing applied corrections
//	POST   /v1/generate         — continue text from the language model
//	GET    /v1/evaluate?text=   — score a text under the language model
//	GET    /v1/candidates?token=— ranked correction candidates for one token
//	GET    /v1/words            — list custom dictionary words
//	POST   /v1/words            — add custom dictionary words
//	DELETE /v1/words/{word}     — remove a custom dictionary word
//
// plus /healthz, /readyz and a Prometheus /metrics endpoint. All routes are
// wrapped in [observe.Middleware], so every request carries a trace span and
// an X-Correlation-ID header.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/customdict"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/health"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/ngram"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/observe"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/spell"
	"github.com/Itay-Saig/Automatic-Spell-Checker/internal/textnorm"
)

// Server handles the spell-checking HTTP API. It does not own the listener;
// the caller mounts [Server.Handler] on an [http.Server].
type Server struct {
	checker *spell.Checker
	model   *ngram.Model
	dict    *customdict.Store
	metrics *observe.Metrics

	// mu guards alpha, which is hot-reloadable.
	mu    sync.RWMutex
	alpha float64
}

// Option is a functional option for [New].
type Option func(*Server)

// WithDictionary attaches a custom dictionary store, enabling the /v1/words
// endpoints. Without it those endpoints answer 501.
func WithDictionary(store *customdict.Store) Option {
	return func(s *Server) { s.dict = store }
}

// WithMetrics replaces the package-level default metrics, mainly so tests
// can read back recorded values.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithAlpha sets the default retention probability applied when a request
// does not carry its own. Values outside (0, 1) are ignored.
func WithAlpha(alpha float64) Option {
	return func(s *Server) {
		if alpha > 0 && alpha < 1 {
			s.alpha = alpha
		}
	}
}

// New creates a Server around a checker and the language model backing it.
func New(checker *spell.Checker, model *ngram.Model, opts ...Option) *Server {
	s := &Server{
		checker: checker,
		model:   model,
		alpha:   spell.DefaultAlpha,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// SetAlpha changes the default retention probability at runtime. Values
// outside (0, 1) are ignored. In-flight requests keep the value they read.
func (s *Server) SetAlpha(alpha float64) {
	if alpha <= 0 || alpha >= 1 {
		return
	}
	s.mu.Lock()
	s.alpha = alpha
	s.mu.Unlock()
}

// defaultAlpha returns the current default retention probability.
func (s *Server) defaultAlpha() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alpha
}

// Handler returns the fully assembled HTTP handler: API routes, health
// probes, the Prometheus scrape endpoint, and the observability middleware
// around all of them.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/check", s.handleCheck)
	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /v1/candidates", s.handleCandidates)
	mux.HandleFunc("GET /v1/words", s.handleListWords)
	mux.HandleFunc("POST /v1/words", s.handleAddWords)
	mux.HandleFunc("DELETE /v1/words/{word}", s.handleRemoveWord)

	health.New(s.healthCheckers()...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}

// healthCheckers assembles the readiness checks: the model must be able to
// serve corrections, and the dictionary connection must answer when one is
// configured.
func (s *Server) healthCheckers() []health.Checker {
	checkers := []health.Checker{
		{Name: "model", Check: func(ctx context.Context) error { return s.checker.Ready() }},
	}
	if s.dict != nil {
		checkers = append(checkers, health.Checker{Name: "dictionary", Check: s.dict.Ping})
	}
	return checkers
}

// resolveAlpha maps the request alpha to an effective value: zero selects
// the server default, anything else must lie in (0, 1).
func (s *Server) resolveAlpha(alpha float64) (float64, error) {
	if alpha == 0 {
		return s.defaultAlpha(), nil
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, fmt.Errorf("alpha %v is out of range (0, 1)", alpha)
	}
	return alpha, nil
}

// checkRequest is the JSON body for the check endpoint.
type checkRequest struct {
	Text  string  `json:"text"`
	Alpha float64 `json:"alpha,omitempty"`
}

// handleCheck handles POST /v1/check. The response body is a [spell.Result]:
// the corrected text, the list of applied corrections, and the language-model
// score.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if textnorm.Normalize(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	alpha, err := s.resolveAlpha(req.Alpha)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.checker.Ready(); err != nil {
		s.metrics.RecordCheck(r.Context(), "check", "error")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	result, err := s.checker.CheckDetailed(req.Text, alpha)
	s.metrics.CheckDuration.Record(r.Context(), time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordCheck(r.Context(), "check", "error")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	s.metrics.RecordCheck(r.Context(), "check", "ok")
	for _, c := range result.Corrections {
		s.metrics.RecordCorrection(r.Context(), c.Distance)
	}
	writeJSON(w, http.StatusOK, result)
}

// generateRequest is the JSON body for the generate endpoint.
type generateRequest struct {
	Context string `json:"context,omitempty"`
	Length  int    `json:"length"`
}

// generateResponse is the JSON body returned from the generate endpoint.
type generateResponse struct {
	Text string `json:"text"`
}

// handleGenerate handles POST /v1/generate. An empty context seeds
// generation from a random corpus context.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Length < 1 {
		http.Error(w, "length must be at least 1", http.StatusBadRequest)
		return
	}
	if err := s.checker.Ready(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Text: s.model.Generate(req.Context, req.Length),
	})
}

// evaluateResponse is the JSON body returned from the evaluate endpoint.
// Text echoes the normalized form the score applies to.
type evaluateResponse struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// handleEvaluate handles GET /v1/evaluate?text=.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	norm := textnorm.Normalize(r.URL.Query().Get("text"))
	if norm == "" {
		http.Error(w, "text query parameter is required", http.StatusBadRequest)
		return
	}
	if err := s.checker.Ready(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	score, err := s.checker.Evaluate(norm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Text: norm, Score: score})
}

// candidateEntry is one ranked candidate in the candidates response.
type candidateEntry struct {
	Term string  `json:"term"`
	Prob float64 `json:"prob"`
}

// candidatesResponse is the JSON body returned from the candidates endpoint.
type candidatesResponse struct {
	Token      string           `json:"token"`
	Candidates []candidateEntry `json:"candidates"`
}

// handleCandidates handles GET /v1/candidates?token=&alpha=.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	fields := strings.Fields(textnorm.Normalize(r.URL.Query().Get("token")))
	if len(fields) != 1 {
		http.Error(w, "token query parameter must be a single word", http.StatusBadRequest)
		return
	}
	token := fields[0]

	alpha := 0.0
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "alpha query parameter is not a number", http.StatusBadRequest)
			return
		}
		alpha = parsed
	}
	resolved, err := s.resolveAlpha(alpha)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.checker.Ready(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	cands, err := s.checker.Candidates(token, resolved)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.metrics.RecordCandidates(r.Context(), len(cands))

	resp := candidatesResponse{Token: token, Candidates: make([]candidateEntry, 0, len(cands))}
	for _, c := range cands {
		resp.Candidates = append(resp.Candidates, candidateEntry{Term: c.Term, Prob: c.Prob})
	}
	writeJSON(w, http.StatusOK, resp)
}

// wordsResponse is the JSON body returned from the dictionary list endpoint.
type wordsResponse struct {
	Words []string `json:"words"`
}

// handleListWords handles GET /v1/words.
func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		http.Error(w, "custom dictionary not configured", http.StatusNotImplemented)
		return
	}

	words, err := s.dict.Words(r.Context())
	if err != nil {
		http.Error(w, "failed to list words: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, wordsResponse{Words: words})
}

// addWordsRequest is the JSON body for the dictionary add endpoint.
type addWordsRequest struct {
	Words []string `json:"words"`
}

// handleAddWords handles POST /v1/words. New words take effect at the next
// model build.
func (s *Server) handleAddWords(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		http.Error(w, "custom dictionary not configured", http.StatusNotImplemented)
		return
	}

	var req addWordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Words) == 0 {
		http.Error(w, "words is required", http.StatusBadRequest)
		return
	}

	if err := s.dict.Add(r.Context(), req.Words...); err != nil {
		http.Error(w, "failed to add words: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleRemoveWord handles DELETE /v1/words/{word}.
func (s *Server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		http.Error(w, "custom dictionary not configured", http.StatusNotImplemented)
		return
	}

	word := r.PathValue("word")
	if word == "" {
		http.Error(w, "word is required", http.StatusBadRequest)
		return
	}

	if err := s.dict.Remove(r.Context(), word); err != nil {
		http.Error(w, "failed to remove word: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
