package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dragonglobal/pos-system/internal/assistant"
	"github.com/dragonglobal/pos-system/internal/model"
)

// GenerateSalesInsight собирает сводку по завершённым заказам и запрашивает
// у внешнего ассистента текстовый разбор. Сводка только читает данные.
func (s *Service) GenerateSalesInsight(ctx context.Context) (string, error) {
	if s.assistant == nil {
		return "", fmt.Errorf("assistant is not configured")
	}

	orders, err := s.CompletedOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("load completed orders: %w", err)
	}

	summary := buildSalesSummary(orders)

	return s.assistant.GenerateInsight(ctx, summary)
}

func buildSalesSummary(orders []model.Order) assistant.SalesSummary {
	total := decimal.Zero
	cash := decimal.Zero
	card := decimal.Zero
	itemsSold := make(map[string]int)

	for _, o := range orders {
		total = total.Add(o.Total)
		switch o.PaymentMethod {
		case model.PaymentCash:
			cash = cash.Add(o.Total)
		case model.PaymentCard:
			card = card.Add(o.Total)
		}
		for _, it := range o.Items {
			itemsSold[it.Name] += it.Quantity
		}
	}

	return assistant.SalesSummary{
		OrderCount:   len(orders),
		TotalRevenue: total.String(),
		CashRevenue:  cash.String(),
		CardRevenue:  card.String(),
		ItemsSold:    itemsSold,
	}
}
