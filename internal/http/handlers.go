package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gastos/internal/auth"
	"gastos/internal/core"
	"gastos/internal/storage"
)

const expensesCacheKey = "expenses"

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	user, ok := s.auth.Authenticate(creds.Username, creds.Password)
	if !ok {
		slog.WarnContext(r.Context(), "Login rejected", "username", creds.Username)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateSessionToken(user, s.authSecret, s.sessionTTL)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed issuing session token", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "Login succeeded", "username", user.Username)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if cached, found := s.listCache.Get(expensesCacheKey); found {
		respondJSON(w, http.StatusOK, map[string]any{"expenses": cached})
		return
	}

	expenses, err := s.ledger.ListWithConversion(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.listCache.Set(expensesCacheKey, expenses)
	respondJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	expense, err := s.ledger.CreateExpense(r.Context(), payload)
	if err != nil {
		if core.IsValidationError(err) {
			respondError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		slog.ErrorContext(r.Context(), "Create expense error", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}

func (s *Server) handlePatchExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	expense, err := s.ledger.PatchExpense(r.Context(), id, payload)
	if err != nil {
		switch {
		case core.IsValidationError(err):
			respondError(w, http.StatusBadRequest, "Invalid payload")
		case errors.Is(err, storage.ErrNotFound):
			respondError(w, http.StatusNotFound, "Expense not found")
		default:
			slog.ErrorContext(r.Context(), "Patch expense error", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := s.ledger.DeleteExpense(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete expense error", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "Expense not found")
		return
	}

	s.invalidateViews()
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := core.Filter{
		From:     query.Get("from"),
		To:       query.Get("to"),
		Category: query.Get("category"),
	}
	if v := query.Get("paidBy"); v != "" {
		paidBy := core.PaidBy(v)
		if !paidBy.Valid() {
			respondError(w, http.StatusBadRequest, "Invalid paidBy")
			return
		}
		filter.PaidBy = paidBy
	}

	cacheKey := r.URL.RawQuery
	if cached, found := s.summaryCache.Get(cacheKey); found {
		respondJSON(w, http.StatusOK, map[string]any{"summary": cached})
		return
	}

	summary, err := s.ledger.Summarize(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.summaryCache.Set(cacheKey, summary)
	respondJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

// invalidateViews drops cached read views after any write.
func (s *Server) invalidateViews() {
	s.listCache.Clear()
	s.summaryCache.Clear()
}
