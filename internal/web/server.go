package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
	"seoadmin/internal/usecase"
)

// Server exposes the operator-facing JSON API.
type Server struct {
	pages        *usecase.Pages
	analyzer     *usecase.Analyzer
	review       *usecase.Review
	orchestrator *usecase.Orchestrator
	reporting    *usecase.Reporting
	reports      ports.ReportRepository
	issues       ports.IssueRepository
	history      ports.HistoryRepository
	logger       *slog.Logger
}

// Deps wires all use cases behind the HTTP surface.
type Deps struct {
	Pages        *usecase.Pages
	Analyzer     *usecase.Analyzer
	Review       *usecase.Review
	Orchestrator *usecase.Orchestrator
	Reporting    *usecase.Reporting
	Reports      ports.ReportRepository
	Issues       ports.IssueRepository
	History      ports.HistoryRepository
	Logger       *slog.Logger
}

// NewServer builds the API server.
func NewServer(deps Deps) *Server {
	return &Server{
		pages:        deps.Pages,
		analyzer:     deps.Analyzer,
		review:       deps.Review,
		orchestrator: deps.Orchestrator,
		reporting:    deps.Reporting,
		reports:      deps.Reports,
		issues:       deps.Issues,
		history:      deps.History,
		logger:       deps.Logger,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/pages", s.handleListPages)
	mux.HandleFunc("POST /api/pages", s.handleSavePage)
	mux.HandleFunc("GET /api/pages/{id}", s.handleGetPage)

	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/bulk", s.handleAnalyzeBulk)

	mux.HandleFunc("GET /api/reports/latest", s.handleLatestReport)
	mux.HandleFunc("GET /api/issues", s.handleListIssues)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("POST /api/issues/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /api/issues/fix", s.handleUpdateFix)
	mux.HandleFunc("POST /api/issues/apply", s.handleApply)
	mux.HandleFunc("POST /api/issues/discard", s.handleDiscard)

	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /api/history/undo", s.handleUndo)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pagePayload struct {
	ID          string   `json:"id,omitempty"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	ScheduledAt string   `json:"scheduledAt,omitempty"`
}

func (s *Server) handleSavePage(w http.ResponseWriter, r *http.Request) {
	var payload pagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, domain.NewValidationError("invalid JSON body: %v", err))
		return
	}

	pageType, err := domain.ParsePageType(payload.Type)
	if err != nil {
		s.writeError(w, domain.NewValidationError("%v", err))
		return
	}

	page := domain.Page{
		ID:      payload.ID,
		Type:    pageType,
		Title:   payload.Title,
		Slug:    payload.Slug,
		Excerpt: payload.Excerpt,
		Content: payload.Content,
		Tags:    payload.Tags,
		Status:  domain.PageStatus(payload.Status),
	}
	if page.Status == "" {
		page.Status = domain.PageDraft
	}
	if payload.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, payload.ScheduledAt)
		if err != nil {
			s.writeError(w, domain.NewValidationError("invalid scheduledAt: %v", err))
			return
		}
		page.ScheduledAt = &t
	}

	if err := s.pages.Save(r.Context(), &page); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.pages.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pages)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PageID string `json:"pageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PageID == "" {
		s.writeError(w, domain.NewValidationError("pageId is required"))
		return
	}

	result, err := s.analyzer.AnalyzePage(r.Context(), payload.PageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeBulk(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PageIDs []string `json:"pageIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.PageIDs) == 0 {
		s.writeError(w, domain.NewValidationError("pageIds is required"))
		return
	}

	summary := s.analyzer.AnalyzeBulk(r.Context(), payload.PageIDs)

	type pageResult struct {
		PageID   string `json:"pageId"`
		ReportID string `json:"reportId,omitempty"`
		Error    string `json:"error,omitempty"`
	}
	results := make([]pageResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		pr := pageResult{PageID: res.PageID, ReportID: res.ReportID}
		if res.Err != nil {
			pr.Error = res.Err.Error()
		}
		results = append(results, pr)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"successful": summary.Successful,
		"failed":     summary.Failed,
		"results":    results,
	})
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("pageId")
	if pageID == "" {
		s.writeError(w, domain.NewValidationError("pageId is required"))
		return
	}
	report, err := s.reports.LatestForPage(r.Context(), pageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("reportId")
	if reportID == "" {
		s.writeError(w, domain.NewValidationError("reportId is required"))
		return
	}
	issues, err := s.issues.ListByReport(r.Context(), reportID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("reportId")
	if reportID == "" {
		s.writeError(w, domain.NewValidationError("reportId is required"))
		return
	}
	summary, err := s.reporting.Summarize(r.Context(), reportID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IssueID string `json:"issueId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IssueID == "" {
		s.writeError(w, domain.NewValidationError("issueId is required"))
		return
	}

	text, err := s.review.Regenerate(r.Context(), payload.IssueID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"proposedFix": text})
}

func (s *Server) handleUpdateFix(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IssueID string `json:"issueId"`
		Text    string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IssueID == "" {
		s.writeError(w, domain.NewValidationError("issueId is required"))
		return
	}

	if err := s.review.UpdateProposedFix(r.Context(), payload.IssueID, payload.Text); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IssueID string `json:"issueId"`
		Text    string `json:"text"`
		Actor   string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IssueID == "" {
		s.writeError(w, domain.NewValidationError("issueId is required"))
		return
	}

	entry, err := s.review.Apply(r.Context(), payload.IssueID, payload.Text, payload.Actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IssueID string `json:"issueId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IssueID == "" {
		s.writeError(w, domain.NewValidationError("issueId is required"))
		return
	}

	if err := s.orchestrator.Discard(r.Context(), payload.IssueID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("pageId")
	if pageID == "" {
		s.writeError(w, domain.NewValidationError("pageId is required"))
		return
	}
	entries, err := s.history.ListForPage(r.Context(), pageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EntryID string `json:"entryId"`
		Actor   string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EntryID == "" {
		s.writeError(w, domain.NewValidationError("entryId is required"))
		return
	}

	entry, err := s.orchestrator.Undo(r.Context(), payload.EntryID, payload.Actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps domain error kinds onto HTTP statuses. Every user-triggered
// action reports failures as an operator-visible message, never a crash.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case domain.IsDelegate(err):
		status = http.StatusBadGateway
	}

	if s.logger != nil && status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
