package domain

import "time"

type ChatMessage struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"senderId"`
	RecipientID int64     `json:"recipientId"`
	Message     string    `json:"message"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
