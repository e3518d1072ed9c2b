package note

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository handles note data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates note repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByLead returns the notes of a lead, newest first. The lead is not
// checked for existence.
func (r *Repository) ListByLead(ctx context.Context, leadID int64) ([]Note, error) {
	notes := []Note{}
	query := `
		SELECT id, lead_id, content, created_at
		FROM notes
		WHERE lead_id = ?
		ORDER BY created_at DESC, id DESC
	`
	if err := r.db.WithContext(ctx).Raw(query, leadID).Scan(&notes).Error; err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

// Create inserts a note. The foreign key rejects unknown leads.
func (r *Repository) Create(ctx context.Context, leadID int64, content *string, now time.Time) (int64, error) {
	var value interface{}
	if content != nil {
		value = *content
	}

	var id int64
	query := `INSERT INTO notes (lead_id, content, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := r.db.WithContext(ctx).Raw(query, leadID, value, now).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes a note and returns the lead it belonged to. found is
// false when no note matched.
func (r *Repository) Delete(ctx context.Context, id int64) (leadID int64, found bool, err error) {
	res := r.db.WithContext(ctx).Raw(`DELETE FROM notes WHERE id = ? RETURNING lead_id`, id).Scan(&leadID)
	if res.Error != nil {
		return 0, false, res.Error
	}
	return leadID, res.RowsAffected > 0, nil
}
