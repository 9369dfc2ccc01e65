package models

import "time"

const NotificationTypeTeamInvite = "convite_equipe"

// Notification is one message delivered through the notification sink.
// Delivery is best-effort: admission never rolls back on a failed write here.
type Notification struct {
	ID          string    `json:"id"`
	ArenaID     string    `json:"arena_id"`
	RecipientID string    `json:"recipient_id"`
	SenderID    string    `json:"sender_id,omitempty"`
	SenderName  string    `json:"sender_name,omitempty"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
