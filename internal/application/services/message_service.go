package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/threaddit/backend/internal/domain/models"
	"github.com/threaddit/backend/internal/domain/ports"
	"github.com/threaddit/backend/pkg/errors"
	"github.com/threaddit/backend/pkg/validate"
)

// MessageService handles private messages
type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	now      func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(messages ports.MessageRepository, users ports.UserRepository) *MessageService {
	return &MessageService{messages: messages, users: users, now: time.Now}
}

// Inbox returns the latest message of every conversation of user, newest first
func (s *MessageService) Inbox(ctx context.Context, user *models.User) ([]models.MessageInfo, error) {
	return s.messages.Latest(ctx, user.ID)
}

// Conversation returns the messages exchanged with otherID and marks the received ones seen
func (s *MessageService) Conversation(ctx context.Context, user *models.User, otherID uint) ([]models.MessageInfo, error) {
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errors.NewNotFoundError("User", fmt.Sprint(otherID))
	}

	messages, err := s.messages.Conversation(ctx, user.ID, otherID)
	if err != nil {
		return nil, err
	}
	hasUnseen := lo.SomeBy(messages, func(m models.MessageInfo) bool {
		return m.Receiver.ID == user.ID && !m.Seen
	})
	if hasUnseen {
		if err := s.messages.MarkSeen(ctx, user.ID, otherID, s.now()); err != nil {
			return nil, fmt.Errorf("failed to mark messages seen: %w", err)
		}
	}
	return messages, nil
}

// Send delivers content from user to the account named receiver
func (s *MessageService) Send(ctx context.Context, user *models.User, receiver, content string) (*models.MessageInfo, error) {
	to, err := s.users.GetByUsername(ctx, strings.TrimSpace(receiver))
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, errors.NewValidationError("receiver", "User does not exist.")
	}
	if to.ID == user.ID {
		return nil, errors.NewValidationError("receiver", "Cannot send a message to yourself.")
	}
	content = validate.SanitizeText(content)
	if content == "" {
		return nil, errors.NewValidationError("content", "Shorter than minimum length 1.")
	}

	message := &models.Message{SenderID: user.ID, ReceiverID: to.ID, Content: content}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	info, err := s.messages.GetInfo(ctx, message.ID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.NewInternalError("message vanished after insert", nil)
	}
	return info, nil
}
