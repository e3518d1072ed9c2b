package lead

import "time"

// Status represents how warm a lead is
type Status string

const (
	StatusHot  Status = "hot"
	StatusWarm Status = "warm"
	StatusCold Status = "cold"
)

// DefaultStatus is what the database assigns when a lead is created without one.
const DefaultStatus = StatusCold

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusHot, StatusWarm, StatusCold:
		return true
	}
	return false
}

// Lead is a sales prospect
type Lead struct {
	ID         int64     `gorm:"column:id" json:"id"`
	Name       string    `gorm:"column:name" json:"name"`
	Address    string    `gorm:"column:address" json:"address"`
	Phone      string    `gorm:"column:phone" json:"phone"`
	Occupation string    `gorm:"column:occupation" json:"occupation"`
	Status     Status    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

