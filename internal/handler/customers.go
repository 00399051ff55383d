package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/service"
)

// ListCustomers возвращает все карточки клиентов либо одну карточку по
// точному совпадению телефона (?phone=...).
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		profile, err := h.service.FindCustomerByPhone(r.Context(), phone)
		if err != nil {
			h.serviceError(w, err, "find customer by phone")
			return
		}
		h.writeJSON(w, http.StatusOK, profile)
		return
	}

	profiles, err := h.service.ListCustomerProfiles(r.Context())
	if err != nil {
		h.serviceError(w, err, "list customers")
		return
	}

	if len(profiles) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, profiles)
}

// GetCustomer возвращает карточку клиента по идентификатору.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CustomerProfileByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.serviceError(w, err, "get customer")
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

type saveCustomerResponse struct {
	Profile *model.CustomerProfile `json:"profile"`
	Result  string                 `json:"result"`
}

// SaveCustomer сохраняет карточку клиента по снимку данных из корзины.
// Повторное сохранение существующей карточки не является ошибкой.
func (h *Handler) SaveCustomer(w http.ResponseWriter, r *http.Request) {
	var snapshot model.Customer
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	profile, outcome, err := h.service.SaveCustomerProfile(r.Context(), snapshot)
	if err != nil {
		h.serviceError(w, err, "save customer")
		return
	}

	resp := saveCustomerResponse{Profile: profile}
	status := http.StatusOK
	switch outcome {
	case service.ProfileCreated:
		resp.Result = "created"
		status = http.StatusCreated
	case service.ProfileNameUpdated:
		resp.Result = "name_updated"
	case service.ProfileUnchanged:
		resp.Result = "already_exists"
	}

	h.writeJSON(w, status, resp)
}

// UpdateCustomer перезаписывает карточку клиента.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var profile model.CustomerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	profile.ID = chi.URLParam(r, "id")

	if err := h.service.UpdateCustomerProfile(r.Context(), &profile); err != nil {
		h.serviceError(w, err, "update customer")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteCustomer удаляет карточку клиента; заказы клиента остаются в истории.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomerProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err, "delete customer")
		return
	}

	w.WriteHeader(http.StatusOK)
}
