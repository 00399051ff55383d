// Package service реализует бизнес-логику POS-сервиса: журнал заказов,
// кассовые смены, справочник клиентов, каталог и сотрудников.
package service

import (
	"context"
	"errors"

	"github.com/dragonglobal/pos-system/internal/assistant"
	"github.com/dragonglobal/pos-system/internal/model"
)

// ErrValidation возвращается при отсутствующих или некорректных полях запроса.
var (
	ErrValidation = errors.New("validation error")
	// ErrEmptyOrder возвращается при попытке сохранить заказ без позиций.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	SaveOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	OrdersByStatus(ctx context.Context, statuses []model.OrderStatus, oldestFirst bool) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) error

	CreateSession(ctx context.Context, session *model.DaySession) error
	ActiveSession(ctx context.Context) (*model.DaySession, error)
	AttachSessionOrder(ctx context.Context, sessionID, orderID string) error
	SessionOrders(ctx context.Context, sessionID string) ([]model.Order, error)
	CloseSession(ctx context.Context, session *model.DaySession) error
	SessionHistory(ctx context.Context) ([]model.DaySession, error)

	CreateProfile(ctx context.Context, profile *model.CustomerProfile) error
	UpdateProfile(ctx context.Context, profile *model.CustomerProfile) error
	DeleteProfile(ctx context.Context, id string) error
	ProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error)
	ProfileByPhone(ctx context.Context, phone string) (*model.CustomerProfile, error)
	ListProfiles(ctx context.Context) ([]model.CustomerProfile, error)
	AttachProfileOrder(ctx context.Context, profileID, orderID string) error

	ListMenu(ctx context.Context) ([]model.MenuItem, error)
	MenuItemByID(ctx context.Context, id string) (*model.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *model.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *model.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error

	ListRooms(ctx context.Context) ([]model.Room, error)
	UpdateRoomStatus(ctx context.Context, id string, status model.RoomStatus) error

	GetSettings(ctx context.Context) (*model.RestaurantSettings, error)
	UpdateSettings(ctx context.Context, settings *model.RestaurantSettings) error

	CreateUser(ctx context.Context, user *model.User) error
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)
}

// Service содержит бизнес-логику POS-сервиса.
type Service struct {
	repo      Repository
	assistant *assistant.Client
}

// NewService создаёт новый сервис с указанным репозиторием и необязательным
// клиентом внешнего текстового ассистента.
func NewService(repo Repository, assistantClient *assistant.Client) *Service {
	return &Service{
		repo:      repo,
		assistant: assistantClient,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
