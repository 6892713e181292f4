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

// ErrCompanyNotFound возвращается, когда профиль компании не найден.
var ErrCompanyNotFound = errors.New("company not found")

const companyColumns = `
	id, user_id, company_name, industry, location_city, country,
	latitude, longitude, contact_email, phone, created_at
`

type CompanyRepository struct {
	db *sqlx.DB
}

func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	query := `
		INSERT INTO companies (
			user_id, company_name, industry, location_city, country,
			latitude, longitude, contact_email, phone
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		c.UserID, c.CompanyName, c.Industry, c.LocationCity, c.Country,
		c.Latitude, c.Longitude, c.ContactEmail, c.Phone,
	).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("company repository: create %w", err)
	}
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("company repository: get by id %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	var c models.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("company repository: get by user id %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *models.Company) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE companies
		SET company_name = $2,
			industry = $3,
			location_city = $4,
			country = $5,
			latitude = $6,
			longitude = $7,
			contact_email = $8,
			phone = $9
		WHERE id = $1
	`,
		c.ID, c.CompanyName, c.Industry, c.LocationCity, c.Country,
		c.Latitude, c.Longitude, c.ContactEmail, c.Phone,
	)
	if err != nil {
		return fmt.Errorf("company repository: update %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// UpdateCoordinates кэширует результат геокодирования в профиле компании.
func (r *CompanyRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE companies SET latitude = $2, longitude = $3 WHERE id = $1`,
		id, lat, lon,
	); err != nil {
		return fmt.Errorf("company repository: update coordinates %w", err)
	}
	return nil
}
