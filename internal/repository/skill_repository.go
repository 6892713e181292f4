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
)

// ErrSkillNotFound возвращается, когда навык не найден в каталоге.
var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// GetOrCreate возвращает навык по имени, создавая его при отсутствии.
// Имя уникально без учёта регистра, хранится как введено впервые.
func (r *SkillRepository) GetOrCreate(ctx context.Context, name string) (*models.Skill, error) {
	var s models.Skill
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO skills (name)
		VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = skills.name
		RETURNING id, name, created_at
	`, name)
	if err != nil {
		return nil, fmt.Errorf("skill repository: get or create %w", err)
	}
	return &s, nil
}

func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var s models.Skill
	if err := r.db.GetContext(ctx, &s,
		`SELECT id, name, created_at FROM skills WHERE id = $1`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("skill repository: get by id %w", err)
	}
	return &s, nil
}

// List возвращает весь каталог навыков по алфавиту.
func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills,
		`SELECT id, name, created_at FROM skills ORDER BY lower(name)`,
	); err != nil {
		return nil, fmt.Errorf("skill repository: list %w", err)
	}
	return skills, nil
}

// ExistAll проверяет, что каждый переданный id есть в каталоге.
func (r *SkillRepository) ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}

	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT id) FROM skills WHERE id = ANY($1::uuid[])`,
		pq.Array(strs),
	); err != nil {
		return false, fmt.Errorf("skill repository: exist all %w", err)
	}

	unique := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		unique[s] = struct{}{}
	}
	return count == len(unique), nil
}
