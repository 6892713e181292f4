package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository/common"
)

// ErrListingNotFound возвращается, когда вакансия не найдена.
var ErrListingNotFound = errors.New("listing not found")

const listingColumns = `
	id, company_id, title, description, location_city, country,
	latitude, longitude, contract_type, active, hired_candidate_id, created_at
`

// ListingRepository отвечает за работу с таблицами listings и listing_skills.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository создаёт экземпляр репозитория.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create создаёт вакансию вместе с требуемыми навыками.
// Новая вакансия всегда активна.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO listings (
				company_id, title, description, location_city, country,
				latitude, longitude, contract_type, active
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
			RETURNING id, active, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, query,
			l.CompanyID, l.Title, l.Description, l.LocationCity, l.Country,
			l.Latitude, l.Longitude, l.ContractType,
		).Scan(&l.ID, &l.Active, &l.CreatedAt); err != nil {
			return fmt.Errorf("listing repository: create %w", err)
		}

		return replaceSkillLinks(ctx, tx, "listing_skills", "listing_id", l.ID, l.SkillIDs)
	})
}

// GetByID возвращает вакансию с навыками.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing repository: get by id %w", err)
	}

	skills, err := loadSkillLinks(ctx, r.db, "listing_skills", "listing_id", []uuid.UUID{l.ID})
	if err != nil {
		return nil, err
	}
	l.SkillIDs = skills[l.ID]

	return &l, nil
}

// Update обновляет редактируемые поля активной вакансии и заменяет навыки.
// Закрытая вакансия не редактируется.
func (r *ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE listings
			SET title = $2,
				description = $3,
				location_city = $4,
				country = $5,
				latitude = $6,
				longitude = $7,
				contract_type = $8
			WHERE id = $1 AND active = TRUE
		`,
			l.ID, l.Title, l.Description, l.LocationCity, l.Country,
			l.Latitude, l.Longitude, l.ContractType,
		)
		if err != nil {
			return fmt.Errorf("listing repository: update %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrListingNotFound
		}

		return replaceSkillLinks(ctx, tx, "listing_skills", "listing_id", l.ID, l.SkillIDs)
	})
}

// Delete удаляет вакансию вместе со связями навыков.
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listing repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrListingNotFound
	}
	return nil
}

// UpdateCoordinates кэширует результат геокодирования в вакансии.
func (r *ListingRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE listings SET latitude = $2, longitude = $3 WHERE id = $1`,
		id, lat, lon,
	); err != nil {
		return fmt.Errorf("listing repository: update coordinates %w", err)
	}
	return nil
}

// ListActive возвращает активные вакансии с навыками.
func (r *ListingRepository) ListActive(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE active = TRUE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("listing repository: list active %w", err)
	}

	return r.attachSkills(ctx, listings)
}

// ListByCompany возвращает все вакансии компании, включая закрытые.
func (r *ListingRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE company_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &listings, query, companyID); err != nil {
		return nil, fmt.Errorf("listing repository: list by company %w", err)
	}

	return r.attachSkills(ctx, listings)
}

func (r *ListingRepository) attachSkills(ctx context.Context, listings []models.Listing) ([]models.Listing, error) {
	if len(listings) == 0 {
		return listings, nil
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}

	skills, err := loadSkillLinks(ctx, r.db, "listing_skills", "listing_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].SkillIDs = skills[listings[i].ID]
	}

	return listings, nil
}
