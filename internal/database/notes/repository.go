// Package notes provides local-store database operations for item notes.
package notes

import (
	"context"

	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// Repository handles all note database operations against the local store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByItem returns all notes attached to one item, newest first, using the
// item-id index.
func (r *Repository) ListByItem(ctx context.Context, itemID string) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

// GetByID retrieves one note. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	var note entities.Note
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Insert stores a fully-populated note.
func (r *Repository) Insert(ctx context.Context, note *entities.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// Save persists a full note record, overwriting the stored row.
func (r *Repository) Save(ctx context.Context, note *entities.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

// Delete removes a note by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.Note{}, "id = ?", id).Error
}

// DeleteByItem removes every note attached to an item. Called when the item
// itself is deleted locally.
func (r *Repository) DeleteByItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Delete(&entities.Note{}, "item_id = ?", itemID).Error
}
