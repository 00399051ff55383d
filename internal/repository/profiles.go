package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dragonglobal/pos-system/internal/model"
)

const profileColumns = `p.id, p.name, p.phone, p.email, p.address,
	COALESCE(array_agg(o.order_id ORDER BY o.attached_at) FILTER (WHERE o.order_id IS NOT NULL), '{}')`

const profileJoin = `FROM customer_profiles p
	LEFT JOIN customer_profile_orders o ON o.profile_id = p.id`

// CreateProfile создаёт карточку клиента. Телефон уникален.
func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *model.CustomerProfile) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO customer_profiles (id, name, phone, email, address) VALUES ($1, $2, $3, $4, $5)`,
			profile.ID, profile.Name, profile.Phone, profile.Email, profile.Address,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: phone %s", ErrProfileExists, profile.Phone)
			}
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
}

// UpdateProfile перезаписывает поля карточки клиента.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, profile *model.CustomerProfile) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE customer_profiles SET name = $2, phone = $3, email = $4, address = $5 WHERE id = $1`,
			profile.ID, profile.Name, profile.Phone, profile.Email, profile.Address,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: phone %s", ErrProfileExists, profile.Phone)
			}
			return fmt.Errorf("update profile: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, profile.ID)
		}
		return nil
	})
}

// DeleteProfile удаляет карточку клиента вместе со ссылками на заказы.
// Сами заказы не затрагиваются: они хранят снимок данных клиента по значению.
func (r *PostgresRepository) DeleteProfile(ctx context.Context, id string) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM customer_profiles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil
	})
}

func scanProfile(row rowScanner) (*model.CustomerProfile, error) {
	var p model.CustomerProfile
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.Address, &p.OrderHistory)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProfileByID возвращает карточку клиента по идентификатору.
func (r *PostgresRepository) ProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` `+profileJoin+` WHERE p.id = $1 GROUP BY p.id`,
		id,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// ProfileByPhone возвращает карточку клиента по точному совпадению телефона.
func (r *PostgresRepository) ProfileByPhone(ctx context.Context, phone string) (*model.CustomerProfile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` `+profileJoin+` WHERE p.phone = $1 GROUP BY p.id`,
		phone,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: phone %s", ErrProfileNotFound, phone)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// ListProfiles возвращает все карточки клиентов.
func (r *PostgresRepository) ListProfiles(ctx context.Context) ([]model.CustomerProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` `+profileJoin+` GROUP BY p.id ORDER BY p.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.CustomerProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return profiles, nil
}

// AttachProfileOrder дописывает заказ в историю карточки. Повторная привязка
// того же заказа не меняет историю.
func (r *PostgresRepository) AttachProfileOrder(ctx context.Context, profileID, orderID string) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO customer_profile_orders (profile_id, order_id) VALUES ($1, $2)
			 ON CONFLICT (profile_id, order_id) DO NOTHING`,
			profileID, orderID,
		)
		if err != nil {
			return fmt.Errorf("attach profile order: %w", err)
		}
		return nil
	})
}
