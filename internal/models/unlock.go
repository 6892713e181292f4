package models

import (
	"time"

	"github.com/google/uuid"
)

// Unlock фиксирует факт разблокировки контактов: актор actor_id навсегда
// получил доступ к контактам цели (кандидата или вакансии). Записи никогда
// не изменяются и не удаляются.
type Unlock struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActorID    uuid.UUID `db:"actor_id" json:"actor_id"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID `db:"target_id" json:"target_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
