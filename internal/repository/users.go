package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dragonglobal/pos-system/internal/model"
)

// CreateUser создаёт нового сотрудника.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, username, password_hash, name, phone, role, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			user.ID, user.Username, user.PasswordHash, user.Name, user.Phone, string(user.Role), user.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrUserExists, user.Username)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// UserByUsername возвращает сотрудника по логину.
func (r *PostgresRepository) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, name, phone, role, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// ListUsers возвращает всех сотрудников.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, password_hash, name, phone, role, created_at FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

// UpdateUser обновляет данные сотрудника. Пустой хэш пароля означает, что
// пароль не меняется.
func (r *PostgresRepository) UpdateUser(ctx context.Context, user *model.User) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		var (
			tag pgconn.CommandTag
			err error
		)

		if len(user.PasswordHash) == 0 {
			tag, err = r.pool.Exec(ctx,
				`UPDATE users SET username = $2, name = $3, phone = $4, role = $5 WHERE id = $1`,
				user.ID, user.Username, user.Name, user.Phone, string(user.Role),
			)
		} else {
			tag, err = r.pool.Exec(ctx,
				`UPDATE users SET username = $2, name = $3, phone = $4, role = $5, password_hash = $6 WHERE id = $1`,
				user.ID, user.Username, user.Name, user.Phone, string(user.Role), user.PasswordHash,
			)
		}
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrUserExists, user.Username)
			}
			return fmt.Errorf("update user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrUserNotFound, user.ID)
		}
		return nil
	})
}

// DeleteUser удаляет сотрудника.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil
	})
}

// CountUsers возвращает количество сотрудников.
func (r *PostgresRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
