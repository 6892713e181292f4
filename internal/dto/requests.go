package dto

// RegisterRequest represents the request to register a new account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateCandidateRequest represents the request to update a consultant profile
type UpdateCandidateRequest struct {
	DisplayName     string   `json:"display_name" binding:"required"`
	Headline        *string  `json:"headline"`
	YearsExperience int      `json:"years_experience"`
	LocationCity    *string  `json:"location_city"`
	Country         *string  `json:"country"`
	Availability    bool     `json:"availability"`
	ContactEmail    *string  `json:"contact_email"`
	Phone           *string  `json:"phone"`
	PhotoURL        *string  `json:"photo_url"`
	CVURL           *string  `json:"cv_url"`
	Skills          []string `json:"skills"`
}

// UpdateCompanyRequest represents the request to update a company profile
type UpdateCompanyRequest struct {
	CompanyName  string  `json:"company_name" binding:"required"`
	Industry     *string `json:"industry"`
	LocationCity *string `json:"location_city"`
	Country      *string `json:"country"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
}

// ListingRequest represents the request to create or update a listing
type ListingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  *string  `json:"description"`
	LocationCity *string  `json:"location_city"`
	Country      *string  `json:"country"`
	ContractType *string  `json:"contract_type"`
	Skills       []string `json:"skills"`
}

// UnlockRequest represents the request to unlock contacts of a target
type UnlockRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required"`
}

// StartCollaborationRequest represents the request to start a collaboration.
// Companies supply candidate_id (listing_id optional); consultants supply
// listing_id only.
type StartCollaborationRequest struct {
	CandidateID string  `json:"candidate_id"`
	ListingID   *string `json:"listing_id"`
}

// SeedRequest represents the request to populate demo data
type SeedRequest struct {
	Candidates int `json:"candidates"`
	Companies  int `json:"companies"`
	Listings   int `json:"listings"`
}
