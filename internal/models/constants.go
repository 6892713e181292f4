package models

// Роли пользователей
const (
	RoleConsultant = "consultant"
	RoleCompany    = "company"
	RoleAdmin      = "admin"
)

// UnlockTarget типы целей разблокировки контактов
const (
	UnlockTargetCandidate = "candidate"
	UnlockTargetListing   = "listing"
)

// CollaborationStatus статусы сотрудничества
const (
	CollaborationStatusActive = "active"
	CollaborationStatusEnded  = "ended"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleConsultant: {},
	RoleCompany:    {},
	RoleAdmin:      {},
}

// ValidUnlockTargets список валидных типов целей разблокировки
var ValidUnlockTargets = map[string]struct{}{
	UnlockTargetCandidate: {},
	UnlockTargetListing:   {},
}
