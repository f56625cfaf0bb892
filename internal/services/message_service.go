package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
)

type PostMessageRequest struct {
	ReceiverID *int64 `json:"receiver_id"`
	Body       string `json:"body" binding:"required,max=4000"`
}

// --- MessageService Interface ---
type MessageService interface {
	PostMessage(ctx context.Context, actor Actor, eventID int64, req PostMessageRequest) (*models.Message, error)
	ListMessages(ctx context.Context, actor Actor, eventID int64) ([]models.Message, error)
}

type messageService struct {
	store repositories.Store
	now   clock
}

// NewMessageService creates a new instance of MessageService.
func NewMessageService(store repositories.Store) MessageService {
	return &messageService{store: store, now: utcNow}
}

// PostMessage appends to an event's coordination channel.
func (s *messageService) PostMessage(ctx context.Context, actor Actor, eventID int64, req PostMessageRequest) (*models.Message, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, invalidField("body", "cannot be empty")
	}

	if _, err := s.store.Events().FindByID(ctx, eventID); err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "get event for message")
	}
	if err := s.authorize(ctx, actor, eventID); err != nil {
		return nil, err
	}
	if req.ReceiverID != nil {
		if _, err := s.store.Users().FindByID(ctx, *req.ReceiverID); err != nil {
			return nil, notFoundAs(err, invalidField("receiver_id", "does not reference an existing user"), "get message receiver")
		}
	}

	message := &models.Message{
		EventID:    eventID,
		SenderID:   actor.UserID,
		ReceiverID: req.ReceiverID,
		Body:       body,
		SentAt:     s.now(),
	}
	if err := s.store.Messages().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return message, nil
}

func (s *messageService) ListMessages(ctx context.Context, actor Actor, eventID int64) ([]models.Message, error) {
	if _, err := s.store.Events().FindByID(ctx, eventID); err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "get event")
	}
	if err := s.authorize(ctx, actor, eventID); err != nil {
		return nil, err
	}
	messages, err := s.store.Messages().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// authorize admits managers to every channel and staff only to events where
// they hold an active assignment on one of the shifts.
func (s *messageService) authorize(ctx context.Context, actor Actor, eventID int64) error {
	if actor.IsManager() {
		return nil
	}
	if !actor.IsStaff() {
		return ErrForbidden
	}

	shifts, err := s.store.Shifts().List(ctx, models.ShiftFilters{EventID: &eventID})
	if err != nil {
		return fmt.Errorf("failed to list shifts for event: %w", err)
	}
	for _, sh := range shifts {
		_, err := s.store.Assignments().FindActive(ctx, sh.ID, actor.UserID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
	}
	return ErrNotOnEvent
}
