package dto

import (
	"github.com/iconsult/match-backend/internal/models"
	"github.com/iconsult/match-backend/internal/service"
)

// AuthResponse represents the response after register/login/refresh
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// CandidateResponse represents a candidate together with the unlock state
// of the current viewer
type CandidateResponse struct {
	*models.Candidate
	Unlocked bool `json:"unlocked"`
}

// ListingDetailResponse represents a listing together with its company;
// company contacts are present only when the viewer unlocked the listing
type ListingDetailResponse struct {
	*models.Listing
	Company  *models.Company `json:"company"`
	Unlocked bool            `json:"unlocked"`
}

// UnlockResponse represents the result of an unlock operation
type UnlockResponse struct {
	*models.Unlock
	Created bool `json:"created"`
}

// NotificationsResponse represents a notification list with unread counter
type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
