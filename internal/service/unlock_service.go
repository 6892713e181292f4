package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/models"
)

var (
	// ErrInvalidTargetType возвращается для неизвестного типа цели.
	ErrInvalidTargetType = errors.New("invalid target type, must be 'candidate' or 'listing'")

	// ErrTargetForbidden возвращается, когда роль актора не даёт
	// разблокировать цель этого типа.
	ErrTargetForbidden = errors.New("role is not allowed to unlock this target type")
)

// UnlockRepositoryIface описывает зависимости UnlockService от хранилища.
type UnlockRepositoryIface interface {
	Add(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (*models.Unlock, bool, error)
	Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error)
	ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]models.Unlock, error)
}

// UnlockResult возвращает итог разблокировки. Created=false означает, что
// контакты уже были разблокированы раньше; операция идемпотентна.
type UnlockResult struct {
	Unlock  *models.Unlock
	Created bool
}

// UnlockService инкапсулирует журнал разблокировок контактов.
type UnlockService struct {
	repo          UnlockRepositoryIface
	candidates    CandidateRepositoryIface
	listings      ListingRepositoryIface
	companies     CompanyRepositoryIface
	notifications *NotificationService
}

// NewUnlockService создаёт сервис разблокировок.
func NewUnlockService(
	repo UnlockRepositoryIface,
	candidates CandidateRepositoryIface,
	listings ListingRepositoryIface,
	companies CompanyRepositoryIface,
	notifications *NotificationService,
) *UnlockService {
	return &UnlockService{
		repo:          repo,
		candidates:    candidates,
		listings:      listings,
		companies:     companies,
		notifications: notifications,
	}
}

// Unlock открывает актору контакты цели. Повторный вызов для той же цели
// возвращает существующую запись и не порождает ни дубликата, ни
// повторного уведомления.
func (s *UnlockService) Unlock(ctx context.Context, actorID uuid.UUID, actorRole, targetType string, targetID uuid.UUID) (*UnlockResult, error) {
	if _, ok := models.ValidUnlockTargets[targetType]; !ok {
		return nil, ErrInvalidTargetType
	}

	// Компания открывает кандидатов, консультант — вакансии
	switch targetType {
	case models.UnlockTargetCandidate:
		if actorRole != models.RoleCompany && actorRole != models.RoleAdmin {
			return nil, ErrTargetForbidden
		}
	case models.UnlockTargetListing:
		if actorRole != models.RoleConsultant && actorRole != models.RoleAdmin {
			return nil, ErrTargetForbidden
		}
	}

	ownerID, err := s.targetOwner(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	unlock, created, err := s.repo.Add(ctx, actorID, targetType, targetID)
	if err != nil {
		return nil, err
	}

	if created && s.notifications != nil {
		_ = s.notifications.Notify(ctx, ownerID, models.NotificationContactsUnlocked, map[string]any{
			"unlock_id":   unlock.ID,
			"actor_id":    actorID,
			"target_type": targetType,
			"target_id":   targetID,
		})
	}

	return &UnlockResult{Unlock: unlock, Created: created}, nil
}

// Exists проверяет, разблокировал ли актор цель.
func (s *UnlockService) Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	if _, ok := models.ValidUnlockTargets[targetType]; !ok {
		return false, ErrInvalidTargetType
	}
	return s.repo.Exists(ctx, actorID, targetType, targetID)
}

// History возвращает журнал разблокировок актора.
func (s *UnlockService) History(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]models.Unlock, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByActor(ctx, actorID, limit, offset)
}

// targetOwner возвращает пользователя-владельца цели; заодно
// гарантирует, что цель существует.
func (s *UnlockService) targetOwner(ctx context.Context, targetType string, targetID uuid.UUID) (uuid.UUID, error) {
	switch targetType {
	case models.UnlockTargetCandidate:
		candidate, err := s.candidates.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		return candidate.UserID, nil
	default:
		listing, err := s.listings.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		company, err := s.companies.GetByID(ctx, listing.CompanyID)
		if err != nil {
			return uuid.Nil, err
		}
		return company.UserID, nil
	}
}
