package service

import (
	"context"
	"sync"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// NotificationService persists notifications and fans them out to live
// websocket subscribers. Slow subscribers are dropped rather than
// blocking the publisher.
type NotificationService struct {
	Repo repository.Repository

	mu   sync.Mutex
	subs map[chan models.Notification]struct{}
}

type NotificationInput struct {
	Type    string
	Title   string
	Message string
	UserID  *string
}

func (s *NotificationService) Create(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	item := &models.Notification{
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		UserID:  in.UserID,
	}
	if err := s.Repo.InsertNotification(ctx, item); err != nil {
		return nil, err
	}
	s.broadcast(*item)
	return item, nil
}

func (s *NotificationService) List(ctx context.Context, userID *string, limit int) ([]models.Notification, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListNotifications(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	return s.Repo.MarkNotificationRead(ctx, id)
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	return s.Repo.DeleteNotification(ctx, id)
}

// Subscribe registers a live feed. The returned cancel func must be
// called when the consumer goes away.
func (s *NotificationService) Subscribe() (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, 16)
	s.mu.Lock()
	if s.subs == nil {
		s.subs = map[chan models.Notification]struct{}{}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *NotificationService) broadcast(item models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- item:
		default:
		}
	}
}
