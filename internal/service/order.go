package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/money"
	"github.com/dragonglobal/pos-system/internal/repository"
)

// OrderItemInput — позиция заказа в запросе на сохранение. Цена и название
// берутся из каталога на стороне сервиса, а не из запроса.
type OrderItemInput struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

// OrderInput описывает запрос на сохранение или завершение заказа.
type OrderInput struct {
	OrderID            string              `json:"order_id,omitempty"`
	Items              []OrderItemInput    `json:"items"`
	Customer           model.Customer      `json:"customer"`
	DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
	PaymentMethod      model.PaymentMethod `json:"payment_method"`
	OrderType          model.OrderType     `json:"order_type"`
	TableNumber        string              `json:"table_number,omitempty"`
	ServerName         string              `json:"server_name,omitempty"`
}

// SaveDraft сохраняет черновик заказа. Для нового заказа назначается
// идентификатор, статус open и время создания; при обновлении существующего
// перезаписываются все поля, кроме CreatedAt и текущего статуса.
func (s *Service) SaveDraft(ctx context.Context, in OrderInput) (*model.Order, error) {
	order, err := s.buildOrder(ctx, in, false)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	return order, nil
}

// CompleteOrder завершает заказ: переводит его в статус completed,
// привязывает к активной кассовой смене (если она открыта) и дописывает
// идентификатор заказа в историю карточки клиента по номеру телефона.
func (s *Service) CompleteOrder(ctx context.Context, in OrderInput) (*model.Order, error) {
	order, err := s.buildOrder(ctx, in, true)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if err := s.attributeToActiveSession(ctx, order.ID); err != nil {
		return nil, err
	}

	if err := s.linkOrderToProfile(ctx, order.Customer.Phone, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *Service) buildOrder(ctx context.Context, in OrderInput, complete bool) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	switch in.PaymentMethod {
	case model.PaymentCash, model.PaymentCard:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	tableNumber := strings.TrimSpace(in.TableNumber)
	switch in.OrderType {
	case model.OrderTypeDineIn, model.OrderTypeRoomService:
		if tableNumber == "" {
			return nil, fmt.Errorf("%w: table or room number required for %s", ErrValidation, in.OrderType)
		}
	case model.OrderTypeTakeAway:
		tableNumber = ""
	default:
		return nil, fmt.Errorf("%w: unknown order type %q", ErrValidation, in.OrderType)
	}

	items := make([]model.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
		menuItem, err := s.repo.MenuItemByID(ctx, it.MenuItemID)
		if err != nil {
			if errors.Is(err, repository.ErrMenuItemNotFound) {
				return nil, fmt.Errorf("%w: unknown menu item %q", ErrValidation, it.MenuItemID)
			}
			return nil, fmt.Errorf("load menu item: %w", err)
		}
		items = append(items, model.LineItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   it.Quantity,
			Note:       strings.TrimSpace(it.Note),
		})
	}

	totals, err := money.ComputeTotals(items, in.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:                 in.OrderID,
		Items:              items,
		Customer:           in.Customer,
		Subtotal:           totals.Subtotal,
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     totals.DiscountAmount,
		Tax:                totals.Tax,
		Total:              totals.Total,
		PaymentMethod:      in.PaymentMethod,
		OrderType:          in.OrderType,
		TableNumber:        tableNumber,
		ServerName:         in.ServerName,
	}

	if in.OrderID == "" {
		order.ID = uuid.NewString()
		order.CreatedAt = time.Now().UTC()
		order.Status = model.OrderStatusOpen
	} else {
		existing, err := s.repo.GetOrder(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}
		if existing.Status == model.OrderStatusCompleted {
			return nil, fmt.Errorf("%w: order %s is already completed", repository.ErrInvalidTransition, in.OrderID)
		}
		// Исходная дата создания сохраняется при любом обновлении.
		order.CreatedAt = existing.CreatedAt
		order.Status = existing.Status
	}

	if complete {
		order.Status = model.OrderStatusCompleted
	}

	return order, nil
}

func (s *Service) attributeToActiveSession(ctx context.Context, orderID string) error {
	session, err := s.repo.ActiveSession(ctx)
	if err != nil {
		// Завершение заказа вне открытой смены допустимо: заказ просто
		// не попадает ни в одну смену.
		if errors.Is(err, repository.ErrNoActiveSession) {
			return nil
		}
		return fmt.Errorf("load active session: %w", err)
	}

	if err := s.repo.AttachSessionOrder(ctx, session.ID, orderID); err != nil {
		return fmt.Errorf("attach order to session: %w", err)
	}

	return nil
}

func (s *Service) linkOrderToProfile(ctx context.Context, phone, orderID string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}

	profile, err := s.repo.ProfileByPhone(ctx, phone)
	if err != nil {
		// Карточка создаётся только явным действием кассира, не автоматически.
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil
		}
		return fmt.Errorf("load customer profile: %w", err)
	}

	if err := s.repo.AttachProfileOrder(ctx, profile.ID, orderID); err != nil {
		return fmt.Errorf("attach order to profile: %w", err)
	}

	return nil
}

// MarkReady переводит заказ из статуса open в ready по сигналу кухни.
func (s *Service) MarkReady(ctx context.Context, orderID string) error {
	return s.repo.UpdateOrderStatus(ctx, orderID, model.OrderStatusOpen, model.OrderStatusReady)
}

// OrderByID возвращает заказ по идентификатору.
func (s *Service) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// ActiveOrders возвращает незавершённые заказы (open и ready), старые первыми.
func (s *Service) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.OrdersByStatus(ctx, []model.OrderStatus{model.OrderStatusOpen, model.OrderStatusReady}, true)
}

// KitchenQueue возвращает очередь кухни: только открытые заказы, старые первыми.
func (s *Service) KitchenQueue(ctx context.Context) ([]model.Order, error) {
	return s.repo.OrdersByStatus(ctx, []model.OrderStatus{model.OrderStatusOpen}, true)
}

// CompletedOrders возвращает завершённые заказы, новые первыми.
func (s *Service) CompletedOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.OrdersByStatus(ctx, []model.OrderStatus{model.OrderStatusCompleted}, false)
}
