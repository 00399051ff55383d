package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dragonglobal/pos-system/internal/model"
)

// GetMenu возвращает все позиции меню.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Menu(r.Context())
	if err != nil {
		h.serviceError(w, err, "get menu")
		return
	}

	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

// AddMenuItem добавляет позицию меню.
func (h *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	var item model.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.service.AddMenuItem(r.Context(), item)
	if err != nil {
		h.serviceError(w, err, "add menu item")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateMenuItem обновляет позицию меню.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item model.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	item.ID = chi.URLParam(r, "id")

	if err := h.service.UpdateMenuItem(r.Context(), item); err != nil {
		h.serviceError(w, err, "update menu item")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteMenuItem удаляет позицию меню.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err, "delete menu item")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetRooms возвращает все номера гостиницы.
func (h *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.Rooms(r.Context())
	if err != nil {
		h.serviceError(w, err, "get rooms")
		return
	}

	if len(rooms) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, rooms)
}

type roomStatusRequest struct {
	Status model.RoomStatus `json:"status"`
}

// SetRoomStatus изменяет состояние номера гостиницы.
func (h *Handler) SetRoomStatus(w http.ResponseWriter, r *http.Request) {
	var req roomStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.SetRoomStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		h.serviceError(w, err, "set room status")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetSettings возвращает реквизиты заведения для печати чека.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings(r.Context())
	if err != nil {
		h.serviceError(w, err, "get settings")
		return
	}

	h.writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings сохраняет реквизиты заведения.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.RestaurantSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateSettings(r.Context(), settings); err != nil {
		h.serviceError(w, err, "update settings")
		return
	}

	w.WriteHeader(http.StatusOK)
}
