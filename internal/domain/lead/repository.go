package lead

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const leadColumns = `id, name, address, phone, occupation, status, created_at, updated_at`

// Repository handles lead data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates lead repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every lead, newest first
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	leads := []Lead{}
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, id DESC`
	if err := r.db.WithContext(ctx).Raw(query).Scan(&leads).Error; err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []Lead{}
	}
	return leads, nil
}

// GetByID retrieves lead by ID. A missing lead is (nil, nil).
func (r *Repository) GetByID(ctx context.Context, id int64) (*Lead, error) {
	var lead Lead
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`
	res := r.db.WithContext(ctx).Raw(query, id).Scan(&lead)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &lead, nil
}

// Create inserts a new lead and returns its id. Without a status the column
// default applies.
func (r *Repository) Create(ctx context.Context, req *CreateLeadRequest, now time.Time) (int64, error) {
	var (
		id    int64
		query string
		args  []interface{}
	)

	if req.Status == nil {
		query = `
			INSERT INTO leads (name, address, phone, occupation, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id
		`
		args = []interface{}{
			nullString(req.Name), nullString(req.Address), nullString(req.Phone), nullString(req.Occupation),
			now, now,
		}
	} else {
		query = `
			INSERT INTO leads (name, address, phone, occupation, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`
		args = []interface{}{
			nullString(req.Name), nullString(req.Address), nullString(req.Phone), nullString(req.Occupation),
			string(*req.Status), now, now,
		}
	}

	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateStatus sets status and refreshes updated_at. Returns rows matched.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status *Status, now time.Time) (int64, error) {
	var value interface{}
	if status != nil {
		value = string(*status)
	}

	query := `UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`
	res := r.db.WithContext(ctx).Exec(query, value, now, id)
	return res.RowsAffected, res.Error
}

// UpdateDetails replaces name, address, phone and occupation. Returns rows matched.
func (r *Repository) UpdateDetails(ctx context.Context, id int64, req *EditLeadRequest, now time.Time) (int64, error) {
	query := `
		UPDATE leads
		SET name = ?, address = ?, phone = ?, occupation = ?, updated_at = ?
		WHERE id = ?
	`
	res := r.db.WithContext(ctx).Exec(query,
		nullString(req.Name), nullString(req.Address), nullString(req.Phone), nullString(req.Occupation),
		now, id,
	)
	return res.RowsAffected, res.Error
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
