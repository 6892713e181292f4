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

// UnlockRepository отвечает за журнал разблокировок контактов.
// Записи только добавляются; идемпотентность обеспечивает уникальный
// индекс (actor_id, target_type, target_id).
type UnlockRepository struct {
	db *sqlx.DB
}

// NewUnlockRepository создаёт экземпляр репозитория.
func NewUnlockRepository(db *sqlx.DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// Add записывает разблокировку. Возвращает created=false, если актор уже
// разблокировал эту цель; повторная запись при этом не создаётся.
func (r *UnlockRepository) Add(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (*models.Unlock, bool, error) {
	var u models.Unlock
	err := r.db.GetContext(ctx, &u, `
		INSERT INTO unlocks (actor_id, target_type, target_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, target_type, target_id) DO NOTHING
		RETURNING id, actor_id, target_type, target_id, created_at
	`, actorID, targetType, targetID)
	if err == nil {
		return &u, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("unlock repository: add %w", err)
	}

	// Конфликт: отдаём существующую запись
	err = r.db.GetContext(ctx, &u, `
		SELECT id, actor_id, target_type, target_id, created_at
		FROM unlocks
		WHERE actor_id = $1 AND target_type = $2 AND target_id = $3
	`, actorID, targetType, targetID)
	if err != nil {
		return nil, false, fmt.Errorf("unlock repository: get existing %w", err)
	}
	return &u, false, nil
}

// Exists проверяет, разблокировал ли актор цель.
func (r *UnlockRepository) Exists(ctx context.Context, actorID uuid.UUID, targetType string, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM unlocks WHERE actor_id = $1 AND target_type = $2 AND target_id = $3)
	`, actorID, targetType, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("unlock repository: exists %w", err)
	}
	return exists, nil
}

// CountByTargets возвращает число разблокировок по каждой цели одним
// запросом. Цели без разблокировок в карте отсутствуют.
func (r *UnlockRepository) CountByTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT target_id, COUNT(*)
		FROM unlocks
		WHERE target_type = $1 AND target_id = ANY($2::uuid[])
		GROUP BY target_id
	`, targetType, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("unlock repository: count by targets %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var targetID uuid.UUID
		var count int
		if err := rows.Scan(&targetID, &count); err != nil {
			return nil, fmt.Errorf("unlock repository: count by targets %w", err)
		}
		out[targetID] = count
	}

	return out, rows.Err()
}

// ListTargetIDs возвращает цели, разблокированные актором.
func (r *UnlockRepository) ListTargetIDs(ctx context.Context, actorID uuid.UUID, targetType string) (map[uuid.UUID]struct{}, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT target_id FROM unlocks WHERE actor_id = $1 AND target_type = $2
	`, actorID, targetType)
	if err != nil {
		return nil, fmt.Errorf("unlock repository: list targets %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var targetID uuid.UUID
		if err := rows.Scan(&targetID); err != nil {
			return nil, fmt.Errorf("unlock repository: list targets %w", err)
		}
		out[targetID] = struct{}{}
	}

	return out, rows.Err()
}

// ListByActor возвращает журнал разблокировок актора, новые первыми.
func (r *UnlockRepository) ListByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]models.Unlock, error) {
	var unlocks []models.Unlock
	err := r.db.SelectContext(ctx, &unlocks, `
		SELECT id, actor_id, target_type, target_id, created_at
		FROM unlocks
		WHERE actor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, actorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unlock repository: list by actor %w", err)
	}
	return unlocks, nil
}
