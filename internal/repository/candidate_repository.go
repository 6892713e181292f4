package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/repository/common"
)

// ErrCandidateNotFound возвращается, когда профиль кандидата не найден.
var ErrCandidateNotFound = errors.New("candidate not found")

const candidateColumns = `
	id, user_id, display_name, headline, years_experience,
	location_city, country, latitude, longitude, availability,
	current_employer_id, contact_email, phone, photo_url, cv_url, created_at
`

// CandidateRepository отвечает за работу с таблицами candidates и candidate_skills.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository создаёт экземпляр репозитория.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// Create создаёт профиль кандидата вместе с набором навыков.
func (r *CandidateRepository) Create(ctx context.Context, c *models.Candidate) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO candidates (
				user_id, display_name, headline, years_experience,
				location_city, country, latitude, longitude, availability,
				contact_email, phone, photo_url, cv_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, query,
			c.UserID, c.DisplayName, c.Headline, c.YearsExperience,
			c.LocationCity, c.Country, c.Latitude, c.Longitude, c.Availability,
			c.ContactEmail, c.Phone, c.PhotoURL, c.CVURL,
		).Scan(&c.ID, &c.CreatedAt); err != nil {
			return fmt.Errorf("candidate repository: create %w", err)
		}

		return replaceSkillLinks(ctx, tx, "candidate_skills", "candidate_id", c.ID, c.SkillIDs)
	})
}

// GetByID возвращает профиль кандидата с навыками.
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("candidate repository: get by id %w", err)
	}

	skills, err := r.skillsByCandidate(ctx, []uuid.UUID{c.ID})
	if err != nil {
		return nil, err
	}
	c.SkillIDs = skills[c.ID]

	return &c, nil
}

// GetByUserID возвращает профиль кандидата по владельцу.
func (r *CandidateRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("candidate repository: get by user id %w", err)
	}

	skills, err := r.skillsByCandidate(ctx, []uuid.UUID{c.ID})
	if err != nil {
		return nil, err
	}
	c.SkillIDs = skills[c.ID]

	return &c, nil
}

// Update обновляет редактируемые поля профиля и заменяет набор навыков.
func (r *CandidateRepository) Update(ctx context.Context, c *models.Candidate) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE candidates
			SET display_name = $2,
				headline = $3,
				years_experience = $4,
				location_city = $5,
				country = $6,
				latitude = $7,
				longitude = $8,
				availability = $9,
				contact_email = $10,
				phone = $11,
				photo_url = $12,
				cv_url = $13
			WHERE id = $1
		`,
			c.ID, c.DisplayName, c.Headline, c.YearsExperience,
			c.LocationCity, c.Country, c.Latitude, c.Longitude, c.Availability,
			c.ContactEmail, c.Phone, c.PhotoURL, c.CVURL,
		)
		if err != nil {
			return fmt.Errorf("candidate repository: update %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrCandidateNotFound
		}

		return replaceSkillLinks(ctx, tx, "candidate_skills", "candidate_id", c.ID, c.SkillIDs)
	})
}

// UpdateCoordinates кэширует результат геокодирования в профиле.
func (r *CandidateRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE candidates SET latitude = $2, longitude = $3 WHERE id = $1`,
		id, lat, lon,
	); err != nil {
		return fmt.Errorf("candidate repository: update coordinates %w", err)
	}
	return nil
}

// ListAvailable возвращает доступных кандидатов с навыками.
func (r *CandidateRepository) ListAvailable(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE availability = TRUE ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("candidate repository: list available %w", err)
	}

	return r.attachSkills(ctx, candidates)
}

// List возвращает всех кандидатов с навыками.
func (r *CandidateRepository) List(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("candidate repository: list %w", err)
	}

	return r.attachSkills(ctx, candidates)
}

func (r *CandidateRepository) attachSkills(ctx context.Context, candidates []models.Candidate) ([]models.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	skills, err := r.skillsByCandidate(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].SkillIDs = skills[candidates[i].ID]
	}

	return candidates, nil
}

// skillsByCandidate загружает навыки одним запросом для набора кандидатов.
func (r *CandidateRepository) skillsByCandidate(ctx context.Context, candidateIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return loadSkillLinks(ctx, r.db, "candidate_skills", "candidate_id", candidateIDs)
}

// loadSkillLinks читает m2m-связи навыков для набора сущностей.
func loadSkillLinks(ctx context.Context, db *sqlx.DB, table, fk string, entityIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		ids = append(ids, id.String())
	}

	query := fmt.Sprintf(
		`SELECT %s, skill_id FROM %s WHERE %s = ANY($1::uuid[]) ORDER BY skill_id`,
		fk, table, fk,
	)
	rows, err := db.QueryxContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load skills from %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entityID, skillID uuid.UUID
		if err := rows.Scan(&entityID, &skillID); err != nil {
			return nil, fmt.Errorf("load skills from %s: %w", table, err)
		}
		out[entityID] = append(out[entityID], skillID)
	}

	return out, rows.Err()
}

// replaceSkillLinks заменяет набор навыков сущности внутри транзакции.
func replaceSkillLinks(ctx context.Context, tx *sqlx.Tx, table, fk string, entityID uuid.UUID, skillIDs []uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, fk)
	if _, err := tx.ExecContext(ctx, query, entityID); err != nil {
		return fmt.Errorf("replace skills in %s: %w", table, err)
	}

	if len(skillIDs) == 0 {
		return nil
	}

	inserter := common.NewBatchInserter(
		tx, fmt.Sprintf(`INSERT INTO %s (%s, skill_id)`, table, fk), 2, 100,
	)
	for _, skillID := range skillIDs {
		if err := inserter.Add(ctx, entityID, skillID); err != nil {
			return err
		}
	}
	return inserter.Flush(ctx)
}
