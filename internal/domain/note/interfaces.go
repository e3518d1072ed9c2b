package note

import (
	"context"
	"time"
)

type NoteRepository interface {
	ListByLead(ctx context.Context, leadID int64) ([]Note, error)
	Create(ctx context.Context, leadID int64, content *string, now time.Time) (int64, error)
	Delete(ctx context.Context, id int64) (leadID int64, found bool, err error)
}
