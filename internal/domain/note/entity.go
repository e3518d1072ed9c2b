package note

import "time"

// Note is a free-text remark attached to a lead
type Note struct {
	ID        int64     `gorm:"column:id" json:"id"`
	LeadID    int64     `gorm:"column:lead_id" json:"lead_id"`
	Content   string    `gorm:"column:content" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}
