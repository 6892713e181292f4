package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iconsult/match-backend/internal/models"
)

// Ошибки предусловий запуска и завершения сотрудничества. Каждая
// отображается в свой HTTP-статус, поэтому они различимы.
var (
	ErrCollaborationNotFound = errors.New("collaboration not found")
	ErrNoActiveCollaboration = errors.New("no active collaboration")
	ErrCandidateUnavailable  = errors.New("candidate unavailable")
	ErrListingInactive       = errors.New("listing inactive")
	ErrListingForeign        = errors.New("listing belongs to another company")
	ErrUnlockRequired        = errors.New("unlock required")
)

// CollaborationRepository отвечает за жизненный цикл сотрудничеств.
// Запуск и завершение меняют несколько таблиц и выполняются одной
// транзакцией: либо все эффекты применяются, либо ни одного.
type CollaborationRepository struct {
	db *sqlx.DB
}

// NewCollaborationRepository создаёт экземпляр репозитория.
func NewCollaborationRepository(db *sqlx.DB) *CollaborationRepository {
	return &CollaborationRepository{db: db}
}

// Start атомарно запускает сотрудничество компании companyID (владелец
// userID) с кандидатом candidateID, опционально по вакансии listingID.
// Строка кандидата блокируется на время проверок, чтобы два конкурентных
// запуска не прошли одновременно.
func (r *CollaborationRepository) Start(ctx context.Context, companyID, userID, candidateID uuid.UUID, listingID *uuid.UUID) (*models.Collaboration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Блокируем кандидата и проверяем доступность
	var available bool
	err = tx.GetContext(ctx, &available,
		`SELECT availability FROM candidates WHERE id = $1 FOR UPDATE`,
		candidateID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("collaboration repository: lock candidate %w", err)
	}
	if !available {
		return nil, ErrCandidateUnavailable
	}

	// Без разблокировки контактов сотрудничество не стартует
	var unlocked bool
	err = tx.GetContext(ctx, &unlocked, `
		SELECT EXISTS(SELECT 1 FROM unlocks WHERE actor_id = $1 AND target_type = $2 AND target_id = $3)
	`, userID, models.UnlockTargetCandidate, candidateID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: check unlock %w", err)
	}
	if !unlocked {
		return nil, ErrUnlockRequired
	}

	if listingID != nil {
		var listing struct {
			CompanyID uuid.UUID `db:"company_id"`
			Active    bool      `db:"active"`
		}
		err = tx.GetContext(ctx, &listing,
			`SELECT company_id, active FROM listings WHERE id = $1 FOR UPDATE`,
			*listingID,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrListingNotFound
			}
			return nil, fmt.Errorf("collaboration repository: lock listing %w", err)
		}
		if listing.CompanyID != companyID {
			return nil, ErrListingForeign
		}
		if !listing.Active {
			return nil, ErrListingInactive
		}
	}

	// Создаём сотрудничество
	var collab models.Collaboration
	err = tx.GetContext(ctx, &collab, `
		INSERT INTO collaborations (company_id, candidate_id, listing_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, candidate_id, listing_id, status, started_at, ended_at
	`, companyID, candidateID, listingID, models.CollaborationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: create %w", err)
	}

	// Кандидат занят текущим работодателем
	_, err = tx.ExecContext(ctx, `
		UPDATE candidates SET availability = FALSE, current_employer_id = $2 WHERE id = $1
	`, candidateID, companyID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: occupy candidate %w", err)
	}

	if listingID != nil {
		// Вакансия закрывается нанятым кандидатом
		_, err = tx.ExecContext(ctx, `
			UPDATE listings SET active = FALSE, hired_candidate_id = $2 WHERE id = $1
		`, *listingID, candidateID)
		if err != nil {
			return nil, fmt.Errorf("collaboration repository: close listing %w", err)
		}
	}

	return &collab, tx.Commit()
}

// StartByCandidate атомарно запускает сотрудничество по инициативе
// кандидата candidateID (пользователь userID): отклик на вакансию
// listingID. Кандидат обязан заранее разблокировать вакансию; работодатель
// взамен автоматически получает разблокировку контактов кандидата.
func (r *CollaborationRepository) StartByCandidate(ctx context.Context, candidateID, userID, listingID uuid.UUID) (*models.Collaboration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var available bool
	err = tx.GetContext(ctx, &available,
		`SELECT availability FROM candidates WHERE id = $1 FOR UPDATE`,
		candidateID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("collaboration repository: lock candidate %w", err)
	}
	if !available {
		return nil, ErrCandidateUnavailable
	}

	var listing struct {
		CompanyID uuid.UUID `db:"company_id"`
		Active    bool      `db:"active"`
	}
	err = tx.GetContext(ctx, &listing,
		`SELECT company_id, active FROM listings WHERE id = $1 FOR UPDATE`,
		listingID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("collaboration repository: lock listing %w", err)
	}
	if !listing.Active {
		return nil, ErrListingInactive
	}

	var unlocked bool
	err = tx.GetContext(ctx, &unlocked, `
		SELECT EXISTS(SELECT 1 FROM unlocks WHERE actor_id = $1 AND target_type = $2 AND target_id = $3)
	`, userID, models.UnlockTargetListing, listingID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: check unlock %w", err)
	}
	if !unlocked {
		return nil, ErrUnlockRequired
	}

	var collab models.Collaboration
	err = tx.GetContext(ctx, &collab, `
		INSERT INTO collaborations (company_id, candidate_id, listing_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, candidate_id, listing_id, status, started_at, ended_at
	`, listing.CompanyID, candidateID, listingID, models.CollaborationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: create %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidates SET availability = FALSE, current_employer_id = $2 WHERE id = $1
	`, candidateID, listing.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: occupy candidate %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE listings SET active = FALSE, hired_candidate_id = $2 WHERE id = $1
	`, listingID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: close listing %w", err)
	}

	// Взаимная разблокировка: работодатель получает контакты кандидата
	var companyUserID uuid.UUID
	err = tx.GetContext(ctx, &companyUserID,
		`SELECT user_id FROM companies WHERE id = $1`, listing.CompanyID,
	)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: company owner %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO unlocks (actor_id, target_type, target_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, target_type, target_id) DO NOTHING
	`, companyUserID, models.UnlockTargetCandidate, candidateID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: reciprocal unlock %w", err)
	}

	return &collab, tx.Commit()
}

// End атомарно завершает активное сотрудничество кандидата и возвращает
// ему доступность. Закрытая вакансия остаётся закрытой.
func (r *CollaborationRepository) End(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1 FOR UPDATE)`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: lock candidate %w", err)
	}
	if !exists {
		return nil, ErrCandidateNotFound
	}

	var collab models.Collaboration
	err = tx.GetContext(ctx, &collab, `
		UPDATE collaborations
		SET status = $2, ended_at = NOW()
		WHERE candidate_id = $1 AND status = $3
		RETURNING id, company_id, candidate_id, listing_id, status, started_at, ended_at
	`, candidateID, models.CollaborationStatusEnded, models.CollaborationStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveCollaboration
		}
		return nil, fmt.Errorf("collaboration repository: end %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidates SET availability = TRUE, current_employer_id = NULL WHERE id = $1
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: release candidate %w", err)
	}

	return &collab, tx.Commit()
}

// GetActiveByCandidate возвращает активное сотрудничество кандидата.
func (r *CollaborationRepository) GetActiveByCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Collaboration, error) {
	var collab models.Collaboration
	err := r.db.GetContext(ctx, &collab, `
		SELECT id, company_id, candidate_id, listing_id, status, started_at, ended_at
		FROM collaborations
		WHERE candidate_id = $1 AND status = $2
	`, candidateID, models.CollaborationStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveCollaboration
		}
		return nil, fmt.Errorf("collaboration repository: get active %w", err)
	}
	return &collab, nil
}

// ListByCandidate возвращает историю сотрудничеств кандидата.
func (r *CollaborationRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Collaboration, error) {
	var collabs []models.Collaboration
	err := r.db.SelectContext(ctx, &collabs, `
		SELECT id, company_id, candidate_id, listing_id, status, started_at, ended_at
		FROM collaborations
		WHERE candidate_id = $1
		ORDER BY started_at DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: list by candidate %w", err)
	}
	return collabs, nil
}

// ListByCompany возвращает историю сотрудничеств компании.
func (r *CollaborationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Collaboration, error) {
	var collabs []models.Collaboration
	err := r.db.SelectContext(ctx, &collabs, `
		SELECT id, company_id, candidate_id, listing_id, status, started_at, ended_at
		FROM collaborations
		WHERE company_id = $1
		ORDER BY started_at DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("collaboration repository: list by company %w", err)
	}
	return collabs, nil
}
