package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/database/items"
	"github.com/JordiMolto/MyMediaVerse/internal/database/notes"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// LocalStore implements Backend on top of the sqlite repositories. Unlike the
// remote store, ids and creation timestamps are assigned here, client-side.
type LocalStore struct {
	items *items.Repository
	notes *notes.Repository
}

// NewLocalStore creates the local backend over the item and note repositories.
func NewLocalStore(itemRepo *items.Repository, noteRepo *notes.Repository) *LocalStore {
	return &LocalStore{items: itemRepo, notes: noteRepo}
}

func (s *LocalStore) ListItems(ctx context.Context) ([]entities.Item, error) {
	return s.items.List(ctx)
}

func (s *LocalStore) GetItem(ctx context.Context, id string) (*entities.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return item, err
}

func (s *LocalStore) CreateItem(ctx context.Context, draft *entities.Item) (*entities.Item, error) {
	item := *draft
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := s.items.Insert(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem reads the stored row, merges the patch over it and writes the
// result back. Fields absent from the patch survive untouched.
func (s *LocalStore) UpdateItem(ctx context.Context, id string, patch *entities.ItemPatch) (*entities.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(item)
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item and every note attached to it.
func (s *LocalStore) DeleteItem(ctx context.Context, id string) error {
	if err := s.notes.DeleteByItem(ctx, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}

func (s *LocalStore) ListNotes(ctx context.Context, itemID string) ([]entities.Note, error) {
	return s.notes.ListByItem(ctx, itemID)
}

func (s *LocalStore) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return note, err
}

func (s *LocalStore) CreateNote(ctx context.Context, draft *entities.Note) (*entities.Note, error) {
	note := *draft
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if note.Milestone == "" {
		note.Milestone = entities.MilestoneNone
	}
	if err := s.notes.Insert(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *LocalStore) UpdateNote(ctx context.Context, id string, patch *entities.NotePatch) (*entities.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(note)
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *LocalStore) DeleteNote(ctx context.Context, id string) error {
	return s.notes.Delete(ctx, id)
}
