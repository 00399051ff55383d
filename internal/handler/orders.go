package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dragonglobal/pos-system/internal/middleware"
	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/service"
)

func (h *Handler) decodeOrderInput(w http.ResponseWriter, r *http.Request) (service.OrderInput, bool) {
	var in service.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return in, false
	}

	// Имя оператора берётся из cookie, а не из тела запроса.
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		in.ServerName = identity.Name
	}

	return in, true
}

// SaveDraft сохраняет черновик заказа.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeOrderInput(w, r)
	if !ok {
		return
	}

	order, err := h.service.SaveDraft(r.Context(), in)
	if err != nil {
		h.serviceError(w, err, "save draft")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// CompleteOrder завершает заказ.
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeOrderInput(w, r)
	if !ok {
		return
	}

	order, err := h.service.CompleteOrder(r.Context(), in)
	if err != nil {
		h.serviceError(w, err, "complete order")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// MarkReady переводит заказ в статус ready по сигналу кухни.
func (h *Handler) MarkReady(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.service.MarkReady(r.Context(), orderID); err != nil {
		h.serviceError(w, err, "mark ready")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.OrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err, "get order")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

// GetOrders возвращает заказы по выборке: active (open и ready, очередь для
// доски открытых заказов), kitchen (только open) или completed.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []model.Order
		err    error
	)

	switch view := r.URL.Query().Get("view"); view {
	case "", "active":
		orders, err = h.service.ActiveOrders(r.Context())
	case "kitchen":
		orders, err = h.service.KitchenQueue(r.Context())
	case "completed":
		orders, err = h.service.CompletedOrders(r.Context())
	default:
		http.Error(w, "unknown view: "+view, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serviceError(w, err, "get orders")
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}
