// Package items provides local-store database operations for media items.
//
// This package implements the storage.LocalItemStore interface used by the
// storage router's local path.
//
// # Usage
//
//	repo := items.NewRepository(db)
//	item, err := repo.GetByID(ctx, "a1b2...")
package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// Repository handles all item database operations against the local store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new items repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all items, newest first.
func (r *Repository) List(ctx context.Context) ([]entities.Item, error) {
	var items []entities.Item
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListByType returns all items of one category, using the type index.
func (r *Repository) ListByType(ctx context.Context, mediaType string) ([]entities.Item, error) {
	var items []entities.Item
	err := r.db.WithContext(ctx).Where("type = ?", mediaType).Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListByStatus returns all items in one lifecycle status, using the status index.
func (r *Repository) ListByStatus(ctx context.Context, status entities.ItemStatus) ([]entities.Item, error) {
	var items []entities.Item
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&items).Error
	return items, err
}

// GetByID retrieves one item. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert stores a fully-populated item. The caller is responsible for id and
// creation-timestamp assignment.
func (r *Repository) Insert(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save persists a full item record, overwriting the stored row.
func (r *Repository) Save(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes an item by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.Item{}, "id = ?", id).Error
}

// ListMissingMetadata returns enrichable items that have no description or no
// image yet. Used by the scheduled enrichment sweep.
func (r *Repository) ListMissingMetadata(ctx context.Context) ([]entities.Item, error) {
	var items []entities.Item
	err := r.db.WithContext(ctx).
		Where("description = '' OR image = ''").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
