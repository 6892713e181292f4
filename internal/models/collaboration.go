package models

import (
	"time"

	"github.com/google/uuid"
)

// Collaboration описывает действующее или завершённое сотрудничество между
// компанией и кандидатом, опционально привязанное к вакансии.
// На одного кандидата одновременно может существовать не более одного
// активного сотрудничества.
type Collaboration struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CompanyID   uuid.UUID  `db:"company_id" json:"company_id"`
	CandidateID uuid.UUID  `db:"candidate_id" json:"candidate_id"`
	ListingID   *uuid.UUID `db:"listing_id" json:"listing_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	EndedAt     *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}
