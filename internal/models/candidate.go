package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate описывает профиль консультанта.
// Контактные поля (ContactEmail, Phone, CVURL) отдаются наружу только если
// зритель разблокировал контакты или является владельцем профиля.
type Candidate struct {
	ID                uuid.UUID   `db:"id" json:"id"`
	UserID            uuid.UUID   `db:"user_id" json:"user_id"`
	DisplayName       string      `db:"display_name" json:"display_name"`
	Headline          *string     `db:"headline" json:"headline,omitempty"`
	YearsExperience   int         `db:"years_experience" json:"years_experience"`
	LocationCity      *string     `db:"location_city" json:"location_city,omitempty"`
	Country           *string     `db:"country" json:"country,omitempty"`
	Latitude          *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64    `db:"longitude" json:"longitude,omitempty"`
	Availability      bool        `db:"availability" json:"availability"`
	CurrentEmployerID *uuid.UUID  `db:"current_employer_id" json:"current_employer_id,omitempty"`
	ContactEmail      *string     `db:"contact_email" json:"contact_email,omitempty"`
	Phone             *string     `db:"phone" json:"phone,omitempty"`
	PhotoURL          *string     `db:"photo_url" json:"photo_url,omitempty"`
	CVURL             *string     `db:"cv_url" json:"cv_url,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	SkillIDs          []uuid.UUID `db:"-" json:"skill_ids"`
}

// MaskContacts убирает контактные данные перед отдачей неразблокировавшему зрителю.
func (c *Candidate) MaskContacts() {
	c.ContactEmail = nil
	c.Phone = nil
	c.CVURL = nil
}

// Company описывает профиль компании-работодателя.
type Company struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	Industry     *string   `db:"industry" json:"industry,omitempty"`
	LocationCity *string   `db:"location_city" json:"location_city,omitempty"`
	Country      *string   `db:"country" json:"country,omitempty"`
	Latitude     *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64  `db:"longitude" json:"longitude,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MaskContacts убирает контактные данные компании.
func (c *Company) MaskContacts() {
	c.ContactEmail = nil
	c.Phone = nil
}
