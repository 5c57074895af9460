// Package chat is direct messaging between a traveler and a mechanic.
// Delivery rides the same websocket hub as the dispatch events.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
	"roadassist/internal/realtime"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
)

type SendRequest struct {
	RecipientID int64  `json:"recipientId" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// Conversation is one chat thread as the list screen shows it.
type Conversation struct {
	Partner     *domain.User         `json:"partner"`
	LastMessage *domain.ChatMessage  `json:"lastMessage,omitempty"`
	Messages    []domain.ChatMessage `json:"messages,omitempty"`
}

type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	Conversation(ctx context.Context, a, b int64, limit int) ([]domain.ChatMessage, error)
	Partners(ctx context.Context, userID int64) ([]int64, error)
	MarkRead(ctx context.Context, recipientID, senderID int64) error
	UnreadCount(ctx context.Context, recipientID int64) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Broadcaster interface {
	Broadcast(room string, event realtime.Event)
}

type Service struct {
	messages ChatRepository
	users    UserRepository
	hub      Broadcaster
}

func NewService(messages ChatRepository, users UserRepository, hub Broadcaster) *Service {
	return &Service{messages: messages, users: users, hub: hub}
}

// Send stores the message and pushes it straight to the recipient's room.
func (s *Service) Send(ctx context.Context, senderID int64, req SendRequest) (*domain.ChatMessage, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" || req.RecipientID == 0 || req.RecipientID == senderID {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	msg := &domain.ChatMessage{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Message:     text,
		CreatedAt:   time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Broadcast(realtime.UserRoom(req.RecipientID), realtime.Event{
		Type:    "chat-message",
		Payload: msg,
	})
	return msg, nil
}

// History returns the thread with one partner, oldest first, and marks the
// partner's messages as read.
func (s *Service) History(ctx context.Context, userID, partnerID int64) ([]domain.ChatMessage, error) {
	msgs, err := s.messages.Conversation(ctx, userID, partnerID, 200)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkRead(ctx, userID, partnerID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversations lists every thread the user participates in.
func (s *Service) Conversations(ctx context.Context, userID int64) ([]Conversation, error) {
	ids, err := s.messages.Partners(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Conversation, 0, len(ids))
	for _, id := range ids {
		partner, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		msgs, err := s.messages.Conversation(ctx, userID, id, 1)
		if err != nil {
			return nil, err
		}

		conv := Conversation{Partner: partner}
		if len(msgs) > 0 {
			conv.LastMessage = &msgs[len(msgs)-1]
		}
		out = append(out, conv)
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.messages.UnreadCount(ctx, userID)
}
