package httpadapter

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/marcilla-smith/wellcheck-mvp/internal/app/checkin"
	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

type Server struct {
	svc *checkin.Service
}

func NewServer(svc *checkin.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/location", s.handleDetectLocation)
	mux.HandleFunc("/checkins/preliminary", s.handlePreliminary)
	mux.HandleFunc("/checkins/response", s.handleResponse)
	mux.HandleFunc("/checkins/continue", s.handleContinue)
	mux.HandleFunc("/resources/search", s.handleResourceSearch)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type checkinPayload struct {
	Date    string         `json:"date,omitempty"`
	Ratings map[string]int `json:"ratings"`
	Context string         `json:"context,omitempty"`
}

type preliminaryRequest struct {
	Ratings map[string]int   `json:"ratings"`
	History []checkinPayload `json:"history,omitempty"`
}

type insightResponse struct {
	Success bool   `json:"success"`
	Insight string `json:"insight"`
}

type wellnessRequest struct {
	Ratings            map[string]int   `json:"ratings"`
	Context            string           `json:"context,omitempty"`
	History            []checkinPayload `json:"history,omitempty"`
	PreliminaryInsight string           `json:"preliminary_insight"`
}

type wellnessResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

type continueRequest struct {
	InitialResponse  string         `json:"initial_response"`
	FollowUpQuestion string         `json:"follow_up_question"`
	Checkin          checkinPayload `json:"checkin"`
	TurnCount        int            `json:"turn_count"`
}

type continueResponse struct {
	Success      bool   `json:"success"`
	Response     string `json:"response,omitempty"`
	TurnCount    int    `json:"turn_count"`
	LimitReached bool   `json:"limit_reached,omitempty"`
	Message      string `json:"message,omitempty"`
}

type resourceSearchRequest struct {
	ConcernCategories []string         `json:"concern_categories"`
	Location          *domain.Location `json:"location,omitempty"`
	Context           string           `json:"context,omitempty"`
}

type resourceSearchResponse struct {
	Success   bool              `json:"success"`
	Resources []domain.Resource `json:"resources"`
	Location  domain.Location   `json:"location"`
}

type locationResponse struct {
	Success  bool            `json:"success"`
	Location domain.Location `json:"location"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetectLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	loc := s.svc.DetectLocation(r.Context(), clientAddress(r))
	writeJSON(w, http.StatusOK, locationResponse{Success: true, Location: loc})
}

func (s *Server) handlePreliminary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req preliminaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	ratings, ok := parseRatings(req.Ratings)
	if !ok {
		badRequest(w, "ratings must use known dimensions with values 1-5")
		return
	}

	text, err := s.svc.PreliminaryInsight(r.Context(), checkin.PreliminaryInput{
		Ratings: ratings,
		History: parseHistory(req.History),
	})
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insightResponse{Success: true, Insight: text})
}

func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req wellnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	ratings, ok := parseRatings(req.Ratings)
	if !ok {
		badRequest(w, "ratings must use known dimensions with values 1-5")
		return
	}

	text, err := s.svc.WellnessResponse(r.Context(), checkin.ResponseInput{
		Ratings:         ratings,
		Context:         req.Context,
		History:         parseHistory(req.History),
		PreliminaryText: req.PreliminaryInsight,
	})
	if err != nil {
		upstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wellnessResponse{Success: true, Response: text})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req continueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FollowUpQuestion) == "" {
		badRequest(w, "follow_up_question is required")
		return
	}

	ratings, ok := parseRatings(req.Checkin.Ratings)
	if !ok {
		badRequest(w, "ratings must use known dimensions with values 1-5")
		return
	}

	out, err := s.svc.ContinueConversation(r.Context(), checkin.ContinueInput{
		InitialResponse:  req.InitialResponse,
		FollowUpQuestion: req.FollowUpQuestion,
		Checkin: domain.Checkin{
			Date:    parseDate(req.Checkin.Date),
			Ratings: ratings,
			Context: req.Checkin.Context,
		},
		Turn: req.TurnCount,
	})
	if err != nil {
		upstreamError(w, err)
		return
	}

	if out.LimitReached {
		writeJSON(w, http.StatusOK, continueResponse{
			Success:      false,
			TurnCount:    out.NewTurn,
			LimitReached: true,
			Message:      "You've reached the follow-up limit for this check-in. Upgrade to keep the conversation going.",
		})
		return
	}

	writeJSON(w, http.StatusOK, continueResponse{
		Success:   true,
		Response:  out.Text,
		TurnCount: out.NewTurn,
	})
}

func (s *Server) handleResourceSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req resourceSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	concerns := make([]domain.Dimension, 0, len(req.ConcernCategories))
	for _, c := range req.ConcernCategories {
		concerns = append(concerns, domain.Dimension(strings.ToLower(strings.TrimSpace(c))))
	}

	loc := req.Location
	if loc == nil {
		resolved := s.svc.DetectLocation(r.Context(), clientAddress(r))
		loc = &resolved
	}

	resources := s.svc.SearchResources(r.Context(), checkin.ResourceSearchInput{
		Concerns: concerns,
		Location: loc,
		Context:  req.Context,
	})

	writeJSON(w, http.StatusOK, resourceSearchResponse{
		Success:   true,
		Resources: resources,
		Location:  *loc,
	})
}

// ─────────────────────────────────────────────
// Request parsing helpers
// ─────────────────────────────────────────────

func parseRatings(raw map[string]int) (domain.Ratings, bool) {
	ratings := make(domain.Ratings, len(raw))
	for k, v := range raw {
		ratings[domain.Dimension(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	if !ratings.Valid() {
		return nil, false
	}
	return ratings, true
}

func parseHistory(raw []checkinPayload) domain.History {
	history := make(domain.History, 0, len(raw))
	for _, c := range raw {
		ratings, ok := parseRatings(c.Ratings)
		if !ok {
			continue
		}
		history = append(history, domain.Checkin{
			Date:    parseDate(c.Date),
			Ratings: ratings,
			Context: c.Context,
		})
	}
	return history
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// clientAddress prefers the X-Forwarded-For chain, then falls back to the
// socket peer address without its port.
func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// upstreamError maps provider failures to a user-safe generic body; no
// upstream error detail is ever relayed.
func upstreamError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"
	if errors.Is(err, checkin.ErrResponseFailed) {
		status = http.StatusBadGateway
		msg = "failed to get response"
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"error":   "method not allowed",
	})
}
