package entities

import "time"

// Category is a user-defined grouping used for display purposes.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Name      string    `gorm:"index;size:100" json:"name"`
	Icon      string    `gorm:"size:64" json:"icon,omitempty"`
	Color     string    `gorm:"size:10" json:"color,omitempty"` // hex, e.g. "#FF0000"
	// No gorm default tag: gorm skips zero values when one is set, turning
	// Visible=false into true on insert.
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
