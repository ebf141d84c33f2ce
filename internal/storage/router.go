// Package storage routes persistence calls between the local sqlite store and
// the remote record store. The choice is made per call from the session state,
// so a login or logout mid-sequence redirects the very next operation.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/remote"
)

// Backend is the operation surface both stores implement. Create calls take
// drafts; the backend owns id and creation-timestamp assignment.
type Backend interface {
	ListItems(ctx context.Context) ([]entities.Item, error)
	GetItem(ctx context.Context, id string) (*entities.Item, error)
	CreateItem(ctx context.Context, draft *entities.Item) (*entities.Item, error)
	UpdateItem(ctx context.Context, id string, patch *entities.ItemPatch) (*entities.Item, error)
	DeleteItem(ctx context.Context, id string) error

	ListNotes(ctx context.Context, itemID string) ([]entities.Note, error)
	GetNote(ctx context.Context, id string) (*entities.Note, error)
	CreateNote(ctx context.Context, draft *entities.Note) (*entities.Note, error)
	UpdateNote(ctx context.Context, id string, patch *entities.NotePatch) (*entities.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// SessionState answers the routing question for one request context. The auth
// package provides the production implementation; tests inject fakes.
type SessionState interface {
	// UseRemote reports whether the current session is authenticated against
	// a configured remote record store.
	UseRemote(ctx context.Context) bool
}

// Router dispatches every call to the backend the session state selects. It
// never caches the decision: each operation asks again.
type Router struct {
	local   Backend
	remote  Backend
	session SessionState
}

// NewRouter wires the two backends behind a session-state switch. remoteStore
// may be nil when no remote record store is configured; all traffic then stays
// local regardless of session state.
func NewRouter(local Backend, remoteStore Backend, session SessionState) *Router {
	return &Router{local: local, remote: remoteStore, session: session}
}

func (r *Router) backend(ctx context.Context) Backend {
	if r.remote != nil && r.session != nil && r.session.UseRemote(ctx) {
		return r.remote
	}
	return r.local
}

func (r *Router) ListItems(ctx context.Context) ([]entities.Item, error) {
	items, err := r.backend(ctx).ListItems(ctx)
	return items, normalizeErr(err)
}

// ListItemsByType returns items of one category. Filtering happens after the
// routing decision so both backends behave identically.
func (r *Router) ListItemsByType(ctx context.Context, mediaType entities.MediaType) ([]entities.Item, error) {
	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]entities.Item, 0, len(items))
	for _, item := range items {
		if item.Type == string(mediaType) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (r *Router) GetItem(ctx context.Context, id string) (*entities.Item, error) {
	item, err := r.backend(ctx).GetItem(ctx, id)
	return item, normalizeErr(err)
}

// CreateItem normalizes the draft's status-dependent dates before handing it
// to whichever backend is active: starting an item stamps fecha de inicio,
// finishing one stamps fecha de fin. Dates the caller already set win.
func (r *Router) CreateItem(ctx context.Context, draft *entities.Item) (*entities.Item, error) {
	normalized := *draft
	now := time.Now().UTC()
	switch normalized.Status {
	case entities.StatusInProgress:
		if normalized.StartedAt == nil {
			normalized.StartedAt = &now
		}
	case entities.StatusCompleted:
		if normalized.FinishedAt == nil {
			normalized.FinishedAt = &now
		}
	}
	item, err := r.backend(ctx).CreateItem(ctx, &normalized)
	return item, normalizeErr(err)
}

func (r *Router) UpdateItem(ctx context.Context, id string, patch *entities.ItemPatch) (*entities.Item, error) {
	item, err := r.backend(ctx).UpdateItem(ctx, id, patch)
	return item, normalizeErr(err)
}

func (r *Router) DeleteItem(ctx context.Context, id string) error {
	return normalizeErr(r.backend(ctx).DeleteItem(ctx, id))
}

func (r *Router) ListNotes(ctx context.Context, itemID string) ([]entities.Note, error) {
	notes, err := r.backend(ctx).ListNotes(ctx, itemID)
	return notes, normalizeErr(err)
}

func (r *Router) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	note, err := r.backend(ctx).GetNote(ctx, id)
	return note, normalizeErr(err)
}

func (r *Router) CreateNote(ctx context.Context, draft *entities.Note) (*entities.Note, error) {
	note, err := r.backend(ctx).CreateNote(ctx, draft)
	return note, normalizeErr(err)
}

func (r *Router) UpdateNote(ctx context.Context, id string, patch *entities.NotePatch) (*entities.Note, error) {
	note, err := r.backend(ctx).UpdateNote(ctx, id, patch)
	return note, normalizeErr(err)
}

func (r *Router) DeleteNote(ctx context.Context, id string) error {
	return normalizeErr(r.backend(ctx).DeleteNote(ctx, id))
}

// normalizeErr folds the remote client's not-found sentinel into the storage
// one. Every other error passes through unchanged so backend failures stay
// visible to the caller.
func normalizeErr(err error) error {
	if errors.Is(err, remote.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
