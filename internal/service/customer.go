package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dragonglobal/pos-system/internal/model"
	"github.com/dragonglobal/pos-system/internal/repository"
)

// ProfileSaveOutcome описывает результат сохранения карточки клиента.
type ProfileSaveOutcome int

const (
	// ProfileCreated — создана новая карточка.
	ProfileCreated ProfileSaveOutcome = iota
	// ProfileNameUpdated — у существующей карточки обновлено имя.
	ProfileNameUpdated
	// ProfileUnchanged — карточка с таким телефоном уже существует без изменений.
	ProfileUnchanged
)

// SaveCustomerProfile сохраняет карточку клиента по снимку данных из заказа.
// Телефон — естественный ключ: для нового телефона создаётся карточка,
// для существующего при расхождении обновляется только имя.
func (s *Service) SaveCustomerProfile(ctx context.Context, snapshot model.Customer) (*model.CustomerProfile, ProfileSaveOutcome, error) {
	name := strings.TrimSpace(snapshot.Name)
	phone := strings.TrimSpace(snapshot.Phone)
	if name == "" || phone == "" {
		return nil, 0, fmt.Errorf("%w: customer name and phone are required", ErrValidation)
	}

	existing, err := s.repo.ProfileByPhone(ctx, phone)
	if err == nil {
		if existing.Name == name {
			return existing, ProfileUnchanged, nil
		}
		existing.Name = name
		if err := s.repo.UpdateProfile(ctx, existing); err != nil {
			return nil, 0, fmt.Errorf("update profile: %w", err)
		}
		return existing, ProfileNameUpdated, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, 0, fmt.Errorf("load profile: %w", err)
	}

	profile := &model.CustomerProfile{
		ID:           uuid.NewString(),
		Name:         name,
		Phone:        phone,
		Email:        strings.TrimSpace(snapshot.Email),
		Address:      strings.TrimSpace(snapshot.Address),
		OrderHistory: []string{},
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, 0, fmt.Errorf("create profile: %w", err)
	}

	return profile, ProfileCreated, nil
}

// UpdateCustomerProfile перезаписывает карточку клиента целиком.
func (s *Service) UpdateCustomerProfile(ctx context.Context, profile *model.CustomerProfile) error {
	if strings.TrimSpace(profile.Name) == "" || strings.TrimSpace(profile.Phone) == "" {
		return fmt.Errorf("%w: customer name and phone are required", ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, profile)
}

// DeleteCustomerProfile удаляет карточку клиента. Заказы хранят снимок данных
// клиента по значению, поэтому история заказов остаётся нетронутой.
func (s *Service) DeleteCustomerProfile(ctx context.Context, id string) error {
	return s.repo.DeleteProfile(ctx, id)
}

// FindCustomerByPhone ищет карточку клиента по точному совпадению телефона.
func (s *Service) FindCustomerByPhone(ctx context.Context, phone string) (*model.CustomerProfile, error) {
	return s.repo.ProfileByPhone(ctx, phone)
}

// CustomerProfileByID возвращает карточку клиента по идентификатору.
func (s *Service) CustomerProfileByID(ctx context.Context, id string) (*model.CustomerProfile, error) {
	return s.repo.ProfileByID(ctx, id)
}

// ListCustomerProfiles возвращает все карточки клиентов.
func (s *Service) ListCustomerProfiles(ctx context.Context) ([]model.CustomerProfile, error) {
	return s.repo.ListProfiles(ctx)
}
