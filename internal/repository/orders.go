package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dragonglobal/pos-system/internal/model"
)

const orderColumns = `id, items, customer_name, customer_phone, customer_email, customer_address,
	subtotal, discount_percentage, discount_amount, tax, total,
	payment_method, order_type, table_number, status, server_name, created_at`

// SaveOrder сохраняет заказ целиком (insert или replace-by-id).
func (r *PostgresRepository) SaveOrder(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO orders (id, items, customer_name, customer_phone, customer_email, customer_address,
				subtotal, discount_percentage, discount_amount, tax, total,
				payment_method, order_type, table_number, status, server_name, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			 ON CONFLICT (id) DO UPDATE SET
				items = EXCLUDED.items,
				customer_name = EXCLUDED.customer_name,
				customer_phone = EXCLUDED.customer_phone,
				customer_email = EXCLUDED.customer_email,
				customer_address = EXCLUDED.customer_address,
				subtotal = EXCLUDED.subtotal,
				discount_percentage = EXCLUDED.discount_percentage,
				discount_amount = EXCLUDED.discount_amount,
				tax = EXCLUDED.tax,
				total = EXCLUDED.total,
				payment_method = EXCLUDED.payment_method,
				order_type = EXCLUDED.order_type,
				table_number = EXCLUDED.table_number,
				status = EXCLUDED.status,
				server_name = EXCLUDED.server_name`,
			order.ID, items,
			order.Customer.Name, order.Customer.Phone, order.Customer.Email, order.Customer.Address,
			order.Subtotal, order.DiscountPercentage, order.DiscountAmount, order.Tax, order.Total,
			string(order.PaymentMethod), string(order.OrderType), order.TableNumber,
			string(order.Status), order.ServerName, order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert order: %w", err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)

	err := row.Scan(
		&o.ID, &items,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.Email, &o.Customer.Address,
		&o.Subtotal, &o.DiscountPercentage, &o.DiscountAmount, &o.Tax, &o.Total,
		&o.PaymentMethod, &o.OrderType, &o.TableNumber, &o.Status, &o.ServerName, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}

	return &o, nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// OrdersByStatus возвращает заказы в указанных статусах, отсортированные по
// времени создания. Кухня и доска открытых заказов читают старые первыми,
// история продаж — новые первыми.
func (r *PostgresRepository) OrdersByStatus(ctx context.Context, statuses []model.OrderStatus, oldestFirst bool) ([]model.Order, error) {
	direction := "DESC"
	if oldestFirst {
		direction = "ASC"
	}

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = ANY($1) ORDER BY created_at `+direction,
		values,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus атомарно переводит заказ из статуса from в to.
// Возвращает ErrInvalidTransition, если текущий статус заказа отличается от from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`,
			id, string(from), string(to),
		)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if tag.RowsAffected() == 1 {
			return nil
		}

		var current string
		err = r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
			}
			return fmt.Errorf("select order status: %w", err)
		}

		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
	})
}
