// Package money содержит расчёт стоимости заказа.
package money

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/dragonglobal/pos-system/internal/model"
)

// ErrDiscountOutOfRange возвращается, если процент скидки вне диапазона [0, 100].
var ErrDiscountOutOfRange = errors.New("discount percentage out of range")

var (
	taxRate = decimal.New(5, -2) // фиксированная ставка налога 5%
	hundred = decimal.NewFromInt(100)
)

// Totals содержит разбивку стоимости заказа.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals вычисляет стоимость набора позиций с учётом скидки и налога:
// total = subtotal − discount + (subtotal − discount) × 0.05.
// Промежуточные значения не округляются, поэтому повторный расчёт по тем же
// входным данным всегда даёт тот же чек.
func ComputeTotals(items []model.LineItem, discountPercentage decimal.Decimal) (Totals, error) {
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(hundred) {
		return Totals{}, ErrDiscountOutOfRange
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discountAmount := subtotal.Mul(discountPercentage).Div(hundred)
	taxable := subtotal.Sub(discountAmount)
	tax := taxable.Mul(taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Tax:            tax,
		Total:          taxable.Add(tax),
	}, nil
}
