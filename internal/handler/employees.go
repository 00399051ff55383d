package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dragonglobal/pos-system/internal/middleware"
	"github.com/dragonglobal/pos-system/internal/model"
)

type employeeRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password,omitempty"`
	Name     string     `json:"name"`
	Phone    string     `json:"phone,omitempty"`
	Role     model.Role `json:"role"`
}

// ListEmployees возвращает всех сотрудников.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.serviceError(w, err, "list employees")
		return
	}

	if len(users) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, users)
}

// AddEmployee создаёт сотрудника с указанной ролью.
func (h *Handler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.AddEmployee(r.Context(), req.Username, req.Password, req.Name, req.Phone, req.Role)
	if err != nil {
		h.serviceError(w, err, "add employee")
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
}

// UpdateEmployee обновляет данные сотрудника; пустой пароль оставляет прежний.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user := model.User{
		ID:       chi.URLParam(r, "id"),
		Username: req.Username,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
	}

	if err := h.service.UpdateEmployee(r.Context(), user, req.Password); err != nil {
		h.serviceError(w, err, "update employee")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteEmployee удаляет сотрудника. Собственную учётную запись удалить нельзя.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		h.serviceError(w, err, "delete employee")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SalesInsight запрашивает у внешнего ассистента текстовый разбор продаж.
func (h *Handler) SalesInsight(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.GenerateSalesInsight(r.Context())
	if err != nil {
		// Ассистент — внешний необязательный сервис: его недоступность
		// не считается внутренней ошибкой POS.
		h.logger.Warn("sales insight unavailable", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
