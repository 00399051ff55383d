package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dragonglobal/pos-system/internal/model"
)

// ListMenu возвращает все позиции меню.
func (r *PostgresRepository) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, category, image_url, description FROM menu_items ORDER BY category, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL, &item.Description); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// MenuItemByID возвращает позицию меню по идентификатору.
func (r *PostgresRepository) MenuItemByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price, category, image_url, description FROM menu_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL, &item.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	return &item, nil
}

// CreateMenuItem добавляет позицию меню.
func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO menu_items (id, name, price, category, image_url, description)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.Name, item.Price, item.Category, item.ImageURL, item.Description,
		)
		if err != nil {
			return fmt.Errorf("insert menu item: %w", err)
		}
		return nil
	})
}

// UpdateMenuItem обновляет позицию меню.
func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *model.MenuItem) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE menu_items SET name = $2, price = $3, category = $4, image_url = $5, description = $6
			 WHERE id = $1`,
			item.ID, item.Name, item.Price, item.Category, item.ImageURL, item.Description,
		)
		if err != nil {
			return fmt.Errorf("update menu item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrMenuItemNotFound, item.ID)
		}
		return nil
	})
}

// DeleteMenuItem удаляет позицию меню. Снимки позиций в сохранённых заказах
// не затрагиваются.
func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id string) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete menu item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
		}
		return nil
	})
}

// ListRooms возвращает все номера гостиницы.
func (r *PostgresRepository) ListRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, number, status, guest FROM rooms ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("select rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var (
			room  model.Room
			guest []byte
		)
		if err := rows.Scan(&room.ID, &room.Number, &room.Status, &guest); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if len(guest) > 0 {
			room.Guest = &model.Customer{}
			if err := json.Unmarshal(guest, room.Guest); err != nil {
				return nil, fmt.Errorf("unmarshal guest: %w", err)
			}
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return rooms, nil
}

// UpdateRoomStatus изменяет состояние номера гостиницы.
func (r *PostgresRepository) UpdateRoomStatus(ctx context.Context, id string, status model.RoomStatus) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE rooms SET status = $2 WHERE id = $1`,
			id, string(status),
		)
		if err != nil {
			return fmt.Errorf("update room status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		return nil
	})
}

// GetSettings возвращает реквизиты заведения. При отсутствии записи
// возвращаются пустые реквизиты.
func (r *PostgresRepository) GetSettings(ctx context.Context) (*model.RestaurantSettings, error) {
	var s model.RestaurantSettings
	err := r.pool.QueryRow(ctx,
		`SELECT name, address, phone FROM restaurant_settings WHERE id = 1`,
	).Scan(&s.Name, &s.Address, &s.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.RestaurantSettings{}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &s, nil
}

// UpdateSettings сохраняет реквизиты заведения.
func (r *PostgresRepository) UpdateSettings(ctx context.Context, settings *model.RestaurantSettings) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO restaurant_settings (id, name, address, phone) VALUES (1, $1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone`,
			settings.Name, settings.Address, settings.Phone,
		)
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
		return nil
	})
}
