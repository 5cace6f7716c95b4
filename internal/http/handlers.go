package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finguide/internal/core"
	"finguide/internal/export"
	applog "finguide/internal/log"
	"finguide/internal/services"
)

func (s *Server) handleUserData(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	bundle, err := s.svc.UserData(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
		core.Transaction
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "User ID required")
		return
	}
	txn, err := s.svc.AddTransaction(r.Context(), req.UserID, req.Transaction)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "transaction": txn})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
		core.Goal
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "User ID required")
		return
	}
	goal, err := s.svc.SaveGoal(r.Context(), req.UserID, req.Goal)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
		core.Investment
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "User ID required")
		return
	}
	inv, err := s.svc.SaveInvestment(r.Context(), req.UserID, req.Investment)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "investment": inv})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req struct {
		UserID int64   `json:"user_id"`
		Type   string  `json:"type"`
		ID     core.ID `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == 0 || req.Type == "" || req.ID.IsZero() {
		writeError(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	if err := s.svc.DeleteItem(r.Context(), req.UserID, req.Type, req.ID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	bundle, err := s.svc.UserData(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	b := export.NewBundle(bundle.Profile, bundle.Transactions, bundle.Goals, bundle.Investments, time.Now())

	if r.URL.Query().Get("format") == "csv" {
		data, err := export.CSV(b, s.currency)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "CSV export failed", applog.FieldError, err, applog.FieldUserID, userID)
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=finance_data_%d.csv", userID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.UserData(r.Context(), userID); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	summary, advice := s.svc.MonthlyReport(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": summary,
		"advice":  advice,
	})
}

func (s *Server) handleReferralLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"referral_link": fmt.Sprintf("https://t.me/%s?start=ref_%d", s.botName, userID),
		"message":       "Invite a friend and get a 10% discount!",
	})
}

// writeValidationError maps service errors onto status codes: numeric
// and field validation failures are 422, anything else 500.
func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidTarget),
		errors.Is(err, core.ErrInvalidDeadline),
		errors.Is(err, core.ErrEmptyName):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody parses a JSON request body, reporting 400 for unreadable
// JSON and 422 for non-numeric amount fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, core.ErrInvalidAmount.Error())
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
