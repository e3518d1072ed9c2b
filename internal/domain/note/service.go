package note

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"crm/internal/database"
	"crm/internal/pkg/events"
)

// Service handles note business logic
type Service struct {
	repo   NoteRepository
	events events.Publisher
	now    func() time.Time
}

func NewService(repo NoteRepository, p events.Publisher) *Service {
	return &Service{
		repo:   repo,
		events: p,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *Service) ListByLead(ctx context.Context, leadID int64) ([]Note, error) {
	notes, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("list notes of lead %d: %w", leadID, err)
	}
	return notes, nil
}

// Create adds a note to a lead. A missing lead yields an error wrapping ErrLeadMissing.
func (s *Service) Create(ctx context.Context, leadID int64, req *CreateNoteRequest) (int64, error) {
	id, err := s.repo.Create(ctx, leadID, req.Content, s.now())
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			logrus.WithField("lead_id", leadID).Info("note rejected: lead does not exist")
			return 0, fmt.Errorf("create note for lead %d: %w: %w", leadID, ErrLeadMissing, err)
		}
		return 0, fmt.Errorf("create note for lead %d: %w", leadID, err)
	}

	events.Emit(ctx, s.events, events.New(events.NoteCreated, leadID, map[string]interface{}{
		"id":      id,
		"lead_id": leadID,
	}))
	return id, nil
}

// Delete removes a note. Deleting a missing note is not an error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	leadID, found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	if !found {
		logrus.WithField("note_id", id).Debug("delete matched no note")
		return nil
	}

	events.Emit(ctx, s.events, events.New(events.NoteDeleted, leadID, map[string]interface{}{
		"id":      id,
		"lead_id": leadID,
	}))
	return nil
}
