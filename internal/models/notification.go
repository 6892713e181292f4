package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий уведомлений
const (
	NotificationContactsUnlocked     = "contacts_unlocked"
	NotificationCollaborationStarted = "collaboration_started"
	NotificationCollaborationEnded   = "collaboration_ended"
)

// Notification хранит уведомление пользователя. Payload — сериализованный
// JSON события, тем же содержимым оно уходит в WebSocket.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Event     string    `db:"event" json:"event"`
	Payload   []byte    `db:"payload" json:"payload"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
