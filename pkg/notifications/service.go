package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/byrencheema/tappy/pkg/logger"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

const maxExcerptLength = 200

// Service persists notifications and broadcasts them to event stream
// clients. Persistence happens before broadcast so a connected client never
// sees a notification that a subsequent list call would miss.
type Service struct {
	store *Store
	hub   *Hub
}

// NewService creates a notification service.
func NewService(store *Store, hub *Hub) *Service {
	return &Service{store: store, hub: hub}
}

// Hub exposes the underlying hub for event stream subscriptions.
func (s *Service) Hub() *Hub {
	return s.hub
}

// Store exposes the underlying store for read endpoints.
func (s *Service) Store() *Store {
	return s.store
}

// Publish builds a notification from a formatted pipeline result, persists
// it, and broadcasts it.
func (s *Service) Publish(ctx context.Context, noteText string, result skilltypes.ExecutionResult, formatted skilltypes.FormattedResult) (*Notification, error) {
	n := &Notification{
		ID:          uuid.NewString(),
		NoteExcerpt: excerpt(noteText),
		SkillID:     result.SkillID,
		SkillName:   result.SkillName,
		Title:       formatted.Title,
		Message:     formatted.Message,
		ActionLabel: formatted.ActionLabel,
		Status:      formatted.Status,
		Links:       formatted.Links,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "failed to persist notification")
	}

	s.hub.Broadcast(n)

	logger.G(ctx).WithFields(map[string]interface{}{
		"notification_id": n.ID,
		"skill_id":        n.SkillID,
		"status":          n.Status,
	}).Info("notification published")

	return n, nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= maxExcerptLength {
		return text
	}
	return string(runes[:maxExcerptLength])
}
