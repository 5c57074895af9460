package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

type chatMessageModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	SenderID    int64      `gorm:"column:sender_id;index"`
	RecipientID int64      `gorm:"column:recipient_id;index"`
	Message     string     `gorm:"column:message"`
	ReadAt      *time.Time `gorm:"column:read_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (chatMessageModel) TableName() string { return "chat_messages" }

func toDomainChatMessage(m chatMessageModel) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Message:     m.Message,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *ChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	m := chatMessageModel{
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Message:     msg.Message,
		CreatedAt:   msg.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*msg = *toDomainChatMessage(m)
	return nil
}

// Conversation returns the two-party message history oldest first.
func (r *ChatRepository) Conversation(ctx context.Context, a, b int64, limit int) ([]domain.ChatMessage, error) {
	q := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []chatMessageModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ChatMessage, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainChatMessage(m))
	}
	return out, nil
}

// Partners lists the distinct user ids this user has exchanged messages with.
func (r *ChatRepository) Partners(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	q := `
SELECT DISTINCT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END
FROM chat_messages
WHERE sender_id = ? OR recipient_id = ?
`
	if err := r.db.WithContext(ctx).Raw(q, userID, userID, userID).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ChatRepository) MarkRead(ctx context.Context, recipientID, senderID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&chatMessageModel{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", now).Error
}

func (r *ChatRepository) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&chatMessageModel{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&n).Error
	return n, err
}
