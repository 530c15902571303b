package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportRecord journals one reporting cycle. WindowTitle is always the
// privacy-filtered title, never the raw one.
type ReportRecord struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	Status      string         `gorm:"not null;index" json:"status"`
	WindowTitle string         `gorm:"not null" json:"window_title"`
	IsPrivate   bool           `gorm:"not null;default:false" json:"is_private"`
	Suspicious  bool           `gorm:"not null;default:false" json:"suspicious"`
	Delivered   bool           `gorm:"not null;default:false;index" json:"delivered"`
	Error       string         `json:"error,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Result converts the record back into the wire payload it was built from.
func (r *ReportRecord) Result() StatusResult {
	return StatusResult{
		Status:      Status(r.Status),
		WindowTitle: r.WindowTitle,
		IsPrivate:   r.IsPrivate,
	}
}

