package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing описывает вакансию, опубликованную компанией.
// Вакансия создаётся с Active=true; закрытое состояние (Active=false и
// заполненный HiredCandidateID) терминально.
type Listing struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	CompanyID        uuid.UUID   `db:"company_id" json:"company_id"`
	Title            string      `db:"title" json:"title"`
	Description      *string     `db:"description" json:"description,omitempty"`
	LocationCity     *string     `db:"location_city" json:"location_city,omitempty"`
	Country          *string     `db:"country" json:"country,omitempty"`
	Latitude         *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64    `db:"longitude" json:"longitude,omitempty"`
	ContractType     *string     `db:"contract_type" json:"contract_type,omitempty"`
	Active           bool        `db:"active" json:"active"`
	HiredCandidateID *uuid.UUID  `db:"hired_candidate_id" json:"hired_candidate_id,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	SkillIDs         []uuid.UUID `db:"-" json:"skill_ids"`
}
