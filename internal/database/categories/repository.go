// Package categories provides local-store database operations for
// user-defined display categories.
package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// Repository handles category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all categories for a user, visible ones first.
func (r *Repository) List(ctx context.Context, userID uint) ([]entities.Category, error) {
	var cats []entities.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("visible DESC, name ASC").
		Find(&cats).Error
	return cats, err
}

// GetByID retrieves one category. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	var cat entities.Category
	err := r.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create assigns an id and stores the category.
func (r *Repository) Create(ctx context.Context, cat *entities.Category) (*entities.Category, error) {
	cat.ID = uuid.NewString()
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	if err := r.db.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// Update persists changed display fields.
func (r *Repository) Update(ctx context.Context, cat *entities.Category) error {
	cat.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(cat).Error
}

// Delete removes a category by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.Category{}, "id = ?", id).Error
}
