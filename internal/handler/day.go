package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dragonglobal/pos-system/internal/middleware"
	"github.com/dragonglobal/pos-system/internal/repository"
)

type startDayRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

type endDayRequest struct {
	ClosingFloat decimal.Decimal `json:"closing_float"`
}

// StartDay открывает кассовую смену от имени текущего оператора.
func (h *Handler) StartDay(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req startDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session, err := h.service.StartDay(r.Context(), req.OpeningFloat, identity.Name)
	if err != nil {
		h.serviceError(w, err, "start day")
		return
	}

	h.writeJSON(w, http.StatusCreated, session)
}

// EndDay закрывает активную смену: в теле запроса — пересчитанная наличность.
func (h *Handler) EndDay(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req endDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session, err := h.service.EndDay(r.Context(), req.ClosingFloat, identity.Name)
	if err != nil {
		h.serviceError(w, err, "end day")
		return
	}

	h.writeJSON(w, http.StatusOK, session)
}

// CurrentSession возвращает активную смену, либо 204, если смена не открыта.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CurrentSession(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSession) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.serviceError(w, err, "current session")
		return
	}

	h.writeJSON(w, http.StatusOK, session)
}

// SessionHistory возвращает закрытые смены.
func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.SessionHistory(r.Context())
	if err != nil {
		h.serviceError(w, err, "session history")
		return
	}

	if len(sessions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, sessions)
}
