package entities

import "time"

// MilestoneType tags a note with the point of the item it refers to.
type MilestoneType string

const (
	MilestoneNone    MilestoneType = "none"
	MilestoneStart   MilestoneType = "start"
	MilestoneHalf    MilestoneType = "half"
	MilestoneEnd     MilestoneType = "end"
	MilestoneRewatch MilestoneType = "rewatch"
)

// Note is a freeform annotation attached to exactly one item.
type Note struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	ItemID    string        `gorm:"index;size:36" json:"item_id"`
	Content   string        `gorm:"type:text" json:"content"`
	Spoiler   bool          `gorm:"default:false" json:"spoiler"`
	Milestone MilestoneType `gorm:"size:16;default:'none'" json:"milestone,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Note) TableName() string {
	return "notes"
}

// NotePatch is a partial note update.
type NotePatch struct {
	Content   *string        `json:"content,omitempty"`
	Spoiler   *bool          `json:"spoiler,omitempty"`
	Milestone *MilestoneType `json:"milestone,omitempty"`
}

func (p *NotePatch) Apply(note *Note) {
	if p == nil {
		return
	}
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Spoiler != nil {
		note.Spoiler = *p.Spoiler
	}
	if p.Milestone != nil {
		note.Milestone = *p.Milestone
	}
}
