package lead

import (
	"context"
	"time"
)

// LeadRepository is the storage the service needs. *Repository implements it.
type LeadRepository interface {
	List(ctx context.Context) ([]Lead, error)
	GetByID(ctx context.Context, id int64) (*Lead, error)
	Create(ctx context.Context, req *CreateLeadRequest, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status *Status, now time.Time) (int64, error)
	UpdateDetails(ctx context.Context, id int64, req *EditLeadRequest, now time.Time) (int64, error)
}
