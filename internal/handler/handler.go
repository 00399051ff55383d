// Package handler содержит HTTP-обработчики API POS-сервиса.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dragonglobal/pos-system/internal/middleware"
	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/money"
	"github.com/dragonglobal/pos-system/internal/repository"
	"github.com/dragonglobal/pos-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, username, password, name, phone string) (*model.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (*model.User, error)

	SaveDraft(ctx context.Context, in service.OrderInput) (*model.Order, error)
	CompleteOrder(ctx context.Context, in service.OrderInput) (*model.Order, error)
	MarkReady(ctx context.Context, orderID string) error
	OrderByID(ctx context.Context, id string) (*model.Order, error)
	ActiveOrders(ctx context.Context) ([]model.Order, error)
	KitchenQueue(ctx context.Context) ([]model.Order, error)
	CompletedOrders(ctx context.Context) ([]model.Order, error)

	StartDay(ctx context.Context, openingFloat decimal.Decimal, operatorName string) (*model.DaySession, error)
	EndDay(ctx context.Context, closingFloat decimal.Decimal, operatorName string) (*model.DaySession, error)
	CurrentSession(ctx context.Context) (*model.DaySession, error)
	SessionHistory(ctx context.Context) ([]model.DaySession, error)

	SaveCustomerProfile(ctx context.Context, snapshot model.Customer) (*model.CustomerProfile, service.ProfileSaveOutcome, error)
	UpdateCustomerProfile(ctx context.Context, profile *model.CustomerProfile) error
	DeleteCustomerProfile(ctx context.Context, id string) error
	FindCustomerByPhone(ctx context.Context, phone string) (*model.CustomerProfile, error)
	CustomerProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error)
	ListCustomerProfiles(ctx context.Context) ([]model.CustomerProfile, error)

	Menu(ctx context.Context) ([]model.MenuItem, error)
	AddMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item model.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	Rooms(ctx context.Context) ([]model.Room, error)
	SetRoomStatus(ctx context.Context, roomID string, status model.RoomStatus) error

	Settings(ctx context.Context) (*model.RestaurantSettings, error)
	UpdateSettings(ctx context.Context, settings model.RestaurantSettings) error

	ListEmployees(ctx context.Context) ([]model.User, error)
	AddEmployee(ctx context.Context, username, password, name, phone string, role model.Role) (*model.User, error)
	UpdateEmployee(ctx context.Context, user model.User, newPassword string) error
	DeleteEmployee(ctx context.Context, id, currentUserID string) error

	GenerateSalesInsight(ctx context.Context) (string, error)
}

// Handler реализует HTTP-обработчики API POS-сервиса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

// serviceError переводит доменные ошибки в HTTP-статусы. Неизвестные ошибки
// считаются ошибками хранилища и не раскрываются клиенту.
func (h *Handler) serviceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, money.ErrDiscountOutOfRange):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, repository.ErrInvalidTransition),
		errors.Is(err, repository.ErrSessionAlreadyActive),
		errors.Is(err, repository.ErrNoActiveSession),
		errors.Is(err, repository.ErrProfileExists),
		errors.Is(err, repository.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrMenuItemNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error(op, zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Register обрабатывает регистрацию нового сотрудника.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Username, req.Password, req.Name, req.Phone)
	if err != nil {
		h.serviceError(w, err, "register user")
		return
	}

	h.authMiddleware.SetAuthCookie(w, user)
	h.writeJSON(w, http.StatusOK, user)
}

// Login выполняет аутентификацию сотрудника и установку cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.serviceError(w, err, "login user")
		return
	}

	h.authMiddleware.SetAuthCookie(w, user)
	h.writeJSON(w, http.StatusOK, user)
}

// Logout сбрасывает cookie авторизации.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}
