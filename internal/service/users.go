package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/repository"
)

// RegisterUser регистрирует нового сотрудника. Первый зарегистрированный
// пользователь получает роль администратора, остальные — роль работника.
func (s *Service) RegisterUser(ctx context.Context, username, password, name, phone string) (*model.User, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: username, password and name are required", ErrValidation)
	}

	role := model.RoleWorker
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		role = model.RoleAdmin
	}

	return s.createUser(ctx, username, password, name, phone, role)
}

// AddEmployee создаёт сотрудника с явно указанной ролью (операция администратора).
func (s *Service) AddEmployee(ctx context.Context, username, password, name, phone string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: username, password and name are required", ErrValidation)
	}
	if role != model.RoleAdmin && role != model.RoleWorker {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	return s.createUser(ctx, username, password, name, phone, role)
}

func (s *Service) createUser(ctx context.Context, username, password, name, phone string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AuthenticateUser проверяет логин и пароль сотрудника.
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ListEmployees возвращает всех сотрудников.
func (s *Service) ListEmployees(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateEmployee обновляет данные сотрудника; при непустом newPassword
// пароль заменяется.
func (s *Service) UpdateEmployee(ctx context.Context, user model.User, newPassword string) error {
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: username and name are required", ErrValidation)
	}

	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	return s.repo.UpdateUser(ctx, &user)
}

// DeleteEmployee удаляет сотрудника. Удаление собственной учётной записи запрещено.
func (s *Service) DeleteEmployee(ctx context.Context, id, currentUserID string) error {
	if id == currentUserID {
		return fmt.Errorf("%w: cannot delete own account", ErrValidation)
	}
	return s.repo.DeleteUser(ctx, id)
}
