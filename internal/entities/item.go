package entities

import (
	"time"

	"gorm.io/gorm"
)

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusInProgress ItemStatus = "in_progress"
	StatusCompleted  ItemStatus = "completed"
	StatusAbandoned  ItemStatus = "abandoned"
)

// Item is a tracked media entry. The category is stored as a plain string for
// backward compatibility with legacy free-text values; use ParseMediaType when
// the canonical type is needed.
type Item struct {
	ID     string     `gorm:"primaryKey;size:36" json:"id"`
	Type   string     `gorm:"index;size:64" json:"type"`
	Title  string     `gorm:"index;size:512" json:"title"`
	Status ItemStatus `gorm:"index;size:20;default:'pending'" json:"status"`

	Rating      *int     `json:"rating,omitempty"` // internal 0-5 scale
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Image       string   `gorm:"size:2048" json:"image,omitempty"`
	Backdrop    string   `gorm:"size:2048" json:"backdrop,omitempty"`
	Tagline     string   `gorm:"size:512" json:"tagline,omitempty"`
	Tags        []string `gorm:"serializer:json" json:"tags,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Adaptive metadata, present only for some categories.
	Duration           int      `json:"duration,omitempty"` // minutes for audiovisual, pages for books
	SeasonProgress     string   `gorm:"size:32" json:"season_progress,omitempty"`  // e.g. "S02/05"
	ReadingProgress    string   `gorm:"size:32" json:"reading_progress,omitempty"` // e.g. "120/350"
	NumberOfSeasons    *int     `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes   *int     `json:"number_of_episodes,omitempty"`
	Platform           string   `gorm:"size:64" json:"platform,omitempty"`
	Director           string   `gorm:"size:256" json:"director,omitempty"`
	Author             string   `gorm:"size:256" json:"author,omitempty"`
	Publisher          string   `gorm:"size:256" json:"publisher,omitempty"`
	Developer          string   `gorm:"size:256" json:"developer,omitempty"`
	Genres             []string `gorm:"serializer:json" json:"genres,omitempty"`
	Cast               []string `gorm:"serializer:json" json:"cast,omitempty"`
	EstimatedTime      string   `gorm:"size:32" json:"estimated_time,omitempty"`
	Trailer            string   `gorm:"size:2048" json:"trailer,omitempty"`
	StreamingPlatforms []string `gorm:"serializer:json" json:"streaming_platforms,omitempty"`

	// Personal stats.
	TimesConsumed  int            `json:"times_consumed,omitempty"`
	LastConsumedAt *time.Time     `json:"last_consumed_at,omitempty"`
	MiniReview     string         `gorm:"type:text" json:"mini_review,omitempty"`
	Files          []string       `gorm:"serializer:json" json:"files,omitempty"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Item) TableName() string {
	return "items"
}

// ItemPatch is a partial update: nil fields are left untouched by the merge.
type ItemPatch struct {
	Type   *string     `json:"type,omitempty"`
	Title  *string     `json:"title,omitempty"`
	Status *ItemStatus `json:"status,omitempty"`

	Rating      *int      `json:"rating,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Backdrop    *string   `json:"backdrop,omitempty"`
	Tagline     *string   `json:"tagline,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`

	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	Duration           *int      `json:"duration,omitempty"`
	SeasonProgress     *string   `json:"season_progress,omitempty"`
	ReadingProgress    *string   `json:"reading_progress,omitempty"`
	NumberOfSeasons    *int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes   *int      `json:"number_of_episodes,omitempty"`
	Platform           *string   `json:"platform,omitempty"`
	Director           *string   `json:"director,omitempty"`
	Author             *string   `json:"author,omitempty"`
	Publisher          *string   `json:"publisher,omitempty"`
	Developer          *string   `json:"developer,omitempty"`
	Genres             *[]string `json:"genres,omitempty"`
	Cast               *[]string `json:"cast,omitempty"`
	EstimatedTime      *string   `json:"estimated_time,omitempty"`
	Trailer            *string   `json:"trailer,omitempty"`
	StreamingPlatforms *[]string `json:"streaming_platforms,omitempty"`

	TimesConsumed  *int       `json:"times_consumed,omitempty"`
	LastConsumedAt *time.Time `json:"last_consumed_at,omitempty"`
	MiniReview     *string    `json:"mini_review,omitempty"`
	Files          *[]string  `json:"files,omitempty"`
}

// Apply shallow-merges the patch into the item. Fields not present in the
// patch are preserved verbatim.
func (p *ItemPatch) Apply(item *Item) {
	if p == nil {
		return
	}
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.Rating != nil {
		item.Rating = p.Rating
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Backdrop != nil {
		item.Backdrop = *p.Backdrop
	}
	if p.Tagline != nil {
		item.Tagline = *p.Tagline
	}
	if p.Tags != nil {
		item.Tags = *p.Tags
	}
	if p.StartedAt != nil {
		item.StartedAt = p.StartedAt
	}
	if p.FinishedAt != nil {
		item.FinishedAt = p.FinishedAt
	}
	if p.Duration != nil {
		item.Duration = *p.Duration
	}
	if p.SeasonProgress != nil {
		item.SeasonProgress = *p.SeasonProgress
	}
	if p.ReadingProgress != nil {
		item.ReadingProgress = *p.ReadingProgress
	}
	if p.NumberOfSeasons != nil {
		item.NumberOfSeasons = p.NumberOfSeasons
	}
	if p.NumberOfEpisodes != nil {
		item.NumberOfEpisodes = p.NumberOfEpisodes
	}
	if p.Platform != nil {
		item.Platform = *p.Platform
	}
	if p.Director != nil {
		item.Director = *p.Director
	}
	if p.Author != nil {
		item.Author = *p.Author
	}
	if p.Publisher != nil {
		item.Publisher = *p.Publisher
	}
	if p.Developer != nil {
		item.Developer = *p.Developer
	}
	if p.Genres != nil {
		item.Genres = *p.Genres
	}
	if p.Cast != nil {
		item.Cast = *p.Cast
	}
	if p.EstimatedTime != nil {
		item.EstimatedTime = *p.EstimatedTime
	}
	if p.Trailer != nil {
		item.Trailer = *p.Trailer
	}
	if p.StreamingPlatforms != nil {
		item.StreamingPlatforms = *p.StreamingPlatforms
	}
	if p.TimesConsumed != nil {
		item.TimesConsumed = *p.TimesConsumed
	}
	if p.LastConsumedAt != nil {
		item.LastConsumedAt = p.LastConsumedAt
	}
	if p.MiniReview != nil {
		item.MiniReview = *p.MiniReview
	}
	if p.Files != nil {
		item.Files = *p.Files
	}
}
