package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill представляет навык из каталога. Имя уникально; навык неизменяем
// после того, как на него сослались профили или вакансии.
type Skill struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
