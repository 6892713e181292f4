package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/models"
)

// CollaborationRepositoryIface описывает зависимости CollaborationService
// от хранилища.
type CollaborationRepositoryIface interface {
	Start(ctx context.Context, companyID, userID, candidateID uuid.UUID, listingID *uuid.UUID) (*models.Collaboration, error)
	StartByCandidate(ctx context.Context, candidateID, userID, listingID uuid.UUID) (*models.Collaboration, error)
	End(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error)
	GetActiveByCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Collaboration, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Collaboration, error)
}

// CollaborationService управляет жизненным циклом сотрудничеств поверх
// транзакционного слоя хранилища и рассылает события сторонам.
type CollaborationService struct {
	repo          CollaborationRepositoryIface
	candidates    CandidateRepositoryIface
	companies     CompanyRepositoryIface
	notifications *NotificationService
}

// NewCollaborationService создаёт сервис сотрудничеств.
func NewCollaborationService(
	repo CollaborationRepositoryIface,
	candidates CandidateRepositoryIface,
	companies CompanyRepositoryIface,
	notifications *NotificationService,
) *CollaborationService {
	return &CollaborationService{
		repo:          repo,
		candidates:    candidates,
		companies:     companies,
		notifications: notifications,
	}
}

// Start запускает сотрудничество компании пользователя userID с кандидатом.
// Все проверки предусловий и эффекты выполняются атомарно в хранилище.
func (s *CollaborationService) Start(ctx context.Context, userID, candidateID uuid.UUID, listingID *uuid.UUID) (*models.Collaboration, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	collab, err := s.repo.Start(ctx, company.ID, userID, candidateID, listingID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if candidate, err := s.candidates.GetByID(ctx, candidateID); err == nil {
			_ = s.notifications.Notify(ctx, candidate.UserID, models.NotificationCollaborationStarted, map[string]any{
				"collaboration_id": collab.ID,
				"company_id":       company.ID,
				"listing_id":       listingID,
			})
		}
	}

	return collab, nil
}

// StartForListing запускает сотрудничество по инициативе консультанта
// userID: отклик на вакансию listingID. Работодателю автоматически
// открываются контакты кандидата.
func (s *CollaborationService) StartForListing(ctx context.Context, userID, listingID uuid.UUID) (*models.Collaboration, error) {
	candidate, err := s.candidates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	collab, err := s.repo.StartByCandidate(ctx, candidate.ID, userID, listingID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if company, err := s.companies.GetByID(ctx, collab.CompanyID); err == nil {
			_ = s.notifications.Notify(ctx, company.UserID, models.NotificationCollaborationStarted, map[string]any{
				"collaboration_id": collab.ID,
				"candidate_id":     candidate.ID,
				"listing_id":       listingID,
			})
		}
	}

	return collab, nil
}

// EndOwn завершает активное сотрудничество консультанта userID.
func (s *CollaborationService) EndOwn(ctx context.Context, userID uuid.UUID) (*models.Collaboration, error) {
	candidate, err := s.candidates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.end(ctx, candidate.ID)
}

// EndForCandidate завершает активное сотрудничество кандидата. Вызывается,
// когда кандидат возвращает себе доступность.
func (s *CollaborationService) EndForCandidate(ctx context.Context, candidateID uuid.UUID) error {
	_, err := s.end(ctx, candidateID)
	return err
}

func (s *CollaborationService) end(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error) {
	collab, err := s.repo.End(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if company, err := s.companies.GetByID(ctx, collab.CompanyID); err == nil {
			_ = s.notifications.Notify(ctx, company.UserID, models.NotificationCollaborationEnded, map[string]any{
				"collaboration_id": collab.ID,
				"candidate_id":     collab.CandidateID,
			})
		}
	}

	return collab, nil
}

// ListForConsultant возвращает историю сотрудничеств консультанта userID.
func (s *CollaborationService) ListForConsultant(ctx context.Context, userID uuid.UUID) ([]models.Collaboration, error) {
	candidate, err := s.candidates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCandidate(ctx, candidate.ID)
}

// ListForCompany возвращает историю сотрудничеств компании userID.
func (s *CollaborationService) ListForCompany(ctx context.Context, userID uuid.UUID) ([]models.Collaboration, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}
