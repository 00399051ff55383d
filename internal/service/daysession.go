package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dragonglobal/pos-system/internal/model"
)

// StartDay открывает кассовую смену с указанным разменным фондом.
// Одновременно может быть активна только одна смена.
func (s *Service) StartDay(ctx context.Context, openingFloat decimal.Decimal, operatorName string) (*model.DaySession, error) {
	if openingFloat.IsNegative() {
		return nil, fmt.Errorf("%w: opening float must not be negative", ErrValidation)
	}
	if strings.TrimSpace(operatorName) == "" {
		return nil, fmt.Errorf("%w: operator name required", ErrValidation)
	}

	session := &model.DaySession{
		ID:           uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		StartedBy:    operatorName,
		OpeningFloat: openingFloat,
		Status:       model.SessionActive,
		OrderIDs:     []string{},
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// EndDay закрывает активную смену: считает продажи по привязанным завершённым
// заказам в разбивке по способу оплаты и фиксирует расхождение кассы.
// Положительное расхождение — излишек, отрицательное — недостача.
func (s *Service) EndDay(ctx context.Context, closingFloat decimal.Decimal, operatorName string) (*model.DaySession, error) {
	if closingFloat.IsNegative() {
		return nil, fmt.Errorf("%w: closing float must not be negative", ErrValidation)
	}
	if strings.TrimSpace(operatorName) == "" {
		return nil, fmt.Errorf("%w: operator name required", ErrValidation)
	}

	session, err := s.repo.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.SessionOrders(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load session orders: %w", err)
	}

	cashSales := decimal.Zero
	cardSales := decimal.Zero
	for _, o := range orders {
		if o.Status != model.OrderStatusCompleted {
			continue
		}
		switch o.PaymentMethod {
		case model.PaymentCash:
			cashSales = cashSales.Add(o.Total)
		case model.PaymentCard:
			cardSales = cardSales.Add(o.Total)
		}
	}

	expectedCash := session.OpeningFloat.Add(cashSales)
	endedAt := time.Now().UTC()

	session.EndedAt = &endedAt
	session.EndedBy = operatorName
	session.ClosingFloat = closingFloat
	session.CashSales = cashSales
	session.CardSales = cardSales
	session.TotalSales = cashSales.Add(cardSales)
	session.Difference = closingFloat.Sub(expectedCash)
	session.Status = model.SessionEnded

	if err := s.repo.CloseSession(ctx, session); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}

	return session, nil
}

// CurrentSession возвращает активную кассовую смену.
func (s *Service) CurrentSession(ctx context.Context) (*model.DaySession, error) {
	return s.repo.ActiveSession(ctx)
}

// SessionHistory возвращает закрытые смены, новые первыми.
func (s *Service) SessionHistory(ctx context.Context) ([]model.DaySession, error) {
	return s.repo.SessionHistory(ctx)
}
