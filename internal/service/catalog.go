package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dragonglobal/pos-system/internal/model"
)

// Menu возвращает все позиции меню.
func (s *Service) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return s.repo.ListMenu(ctx)
}

// AddMenuItem добавляет новую позицию меню.
func (s *Service) AddMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	if err := validateMenuItem(&item); err != nil {
		return nil, err
	}
	item.ID = uuid.NewString()
	if err := s.repo.CreateMenuItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

// UpdateMenuItem обновляет позицию меню. Ранее сохранённые заказы хранят
// снимок цены и не меняются.
func (s *Service) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	if err := validateMenuItem(&item); err != nil {
		return err
	}
	return s.repo.UpdateMenuItem(ctx, &item)
}

// DeleteMenuItem удаляет позицию меню.
func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	return s.repo.DeleteMenuItem(ctx, id)
}

func validateMenuItem(item *model.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: menu item name required", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: menu item price must not be negative", ErrValidation)
	}
	return nil
}

// Rooms возвращает все номера гостиницы.
func (s *Service) Rooms(ctx context.Context) ([]model.Room, error) {
	return s.repo.ListRooms(ctx)
}

// SetRoomStatus изменяет состояние номера гостиницы.
func (s *Service) SetRoomStatus(ctx context.Context, roomID string, status model.RoomStatus) error {
	switch status {
	case model.RoomVacant, model.RoomOccupied, model.RoomNeedsClean, model.RoomOutOfService:
	default:
		return fmt.Errorf("%w: unknown room status %q", ErrValidation, status)
	}
	return s.repo.UpdateRoomStatus(ctx, roomID, status)
}

// Settings возвращает реквизиты заведения.
func (s *Service) Settings(ctx context.Context) (*model.RestaurantSettings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateSettings сохраняет реквизиты заведения.
func (s *Service) UpdateSettings(ctx context.Context, settings model.RestaurantSettings) error {
	if strings.TrimSpace(settings.Name) == "" {
		return fmt.Errorf("%w: restaurant name required", ErrValidation)
	}
	return s.repo.UpdateSettings(ctx, &settings)
}
