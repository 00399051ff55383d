package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dragonglobal/pos-system/internal/model"
)

const sessionColumns = `s.id, s.started_at, s.ended_at, s.started_by, s.ended_by,
	s.opening_float, s.closing_float, s.cash_sales, s.card_sales, s.total_sales, s.difference, s.status,
	COALESCE(array_agg(o.order_id ORDER BY o.attached_at) FILTER (WHERE o.order_id IS NOT NULL), '{}')`

const sessionJoin = `FROM day_sessions s
	LEFT JOIN day_session_orders o ON o.session_id = s.id`

// CreateSession открывает новую кассовую смену. Частичный уникальный индекс
// по статусу active гарантирует единственность активной смены.
func (r *PostgresRepository) CreateSession(ctx context.Context, session *model.DaySession) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO day_sessions (id, started_at, started_by, opening_float, status)
			 VALUES ($1, $2, $3, $4, $5)`,
			session.ID, session.StartedAt, session.StartedBy, session.OpeningFloat, string(session.Status),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSessionAlreadyActive
			}
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

func scanSession(row rowScanner) (*model.DaySession, error) {
	var s model.DaySession
	err := row.Scan(
		&s.ID, &s.StartedAt, &s.EndedAt, &s.StartedBy, &s.EndedBy,
		&s.OpeningFloat, &s.ClosingFloat, &s.CashSales, &s.CardSales, &s.TotalSales, &s.Difference, &s.Status,
		&s.OrderIDs,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ActiveSession возвращает активную кассовую смену вместе с набором
// привязанных идентификаторов заказов.
func (r *PostgresRepository) ActiveSession(ctx context.Context) (*model.DaySession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` `+sessionJoin+` WHERE s.status = 'active' GROUP BY s.id`,
	)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}

	return session, nil
}

// AttachSessionOrder привязывает заказ к смене. Повторная привязка того же
// заказа не меняет набор.
func (r *PostgresRepository) AttachSessionOrder(ctx context.Context, sessionID, orderID string) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO day_session_orders (session_id, order_id) VALUES ($1, $2)
			 ON CONFLICT (session_id, order_id) DO NOTHING`,
			sessionID, orderID,
		)
		if err != nil {
			return fmt.Errorf("attach session order: %w", err)
		}
		return nil
	})
}

// SessionOrders возвращает завершённые заказы, привязанные к смене.
func (r *PostgresRepository) SessionOrders(ctx context.Context, sessionID string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status = 'completed'
		   AND id IN (SELECT order_id FROM day_session_orders WHERE session_id = $1)
		 ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select session orders: %w", err)
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

// CloseSession фиксирует итог смены и переводит её в статус ended.
func (r *PostgresRepository) CloseSession(ctx context.Context, session *model.DaySession) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE day_sessions
			 SET ended_at = $2, ended_by = $3, closing_float = $4,
				 cash_sales = $5, card_sales = $6, total_sales = $7, difference = $8, status = $9
			 WHERE id = $1 AND status = 'active'`,
			session.ID, session.EndedAt, session.EndedBy, session.ClosingFloat,
			session.CashSales, session.CardSales, session.TotalSales, session.Difference,
			string(session.Status),
		)
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNoActiveSession
		}
		return nil
	})
}

// SessionHistory возвращает закрытые смены, новые первыми.
func (r *PostgresRepository) SessionHistory(ctx context.Context) ([]model.DaySession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` `+sessionJoin+` WHERE s.status = 'ended' GROUP BY s.id ORDER BY s.ended_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select session history: %w", err)
	}
	defer rows.Close()

	var sessions []model.DaySession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sessions, nil
}
