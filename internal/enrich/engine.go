// Package enrich fills item metadata from the external providers. It decides
// which provider serves a category, rescales ratings to the internal 0-5
// scale and overwrites an item's catalog fields with whatever the provider
// supplies, keeping stored values only where the provider has nothing.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
)

// ErrUnsupportedType is returned for categories no provider can serve.
var ErrUnsupportedType = errors.New("no metadata provider for this category")

// ItemStore is the slice of the storage router the engine needs.
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*entities.Item, error)
	UpdateItem(ctx context.Context, id string, patch *entities.ItemPatch) (*entities.Item, error)
}

// AudiovisualProvider serves movies, series and anime.
type AudiovisualProvider interface {
	SearchMovie(ctx context.Context, title string) (*providers.TMDBMatch, error)
	SearchTV(ctx context.Context, title string) (*providers.TMDBMatch, error)
	MovieDetails(ctx context.Context, id int) (*providers.TMDBDetails, error)
	TVDetails(ctx context.Context, id int) (*providers.TMDBDetails, error)
}

// BookProvider serves books.
type BookProvider interface {
	Search(ctx context.Context, title string) (*providers.BookResult, error)
}

// GameProvider serves videogames.
type GameProvider interface {
	Search(ctx context.Context, title string) (*providers.GameResult, error)
	Details(ctx context.Context, id int) (*providers.GameDetails, error)
}

// Result describes what one enrichment did.
type Result struct {
	Item          *entities.Item `json:"item"`
	FieldsUpdated []string       `json:"fields_updated"`
	Source        string         `json:"source"`
	MatchedTitle  string         `json:"matched_title"`
}

// BatchResult summarizes a multi-item run.
type BatchResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// Engine routes items to the provider their category needs and persists the
// resulting metadata through the storage router.
type Engine struct {
	store ItemStore
	tmdb  AudiovisualProvider
	books BookProvider
	games GameProvider
	pacer providers.Pacer
	log   *log.Logger
}

// NewEngine wires the engine. pacer spaces out batch calls; pass
// providers.NopPacer{} to disable pacing.
func NewEngine(store ItemStore, tmdb AudiovisualProvider, books BookProvider, games GameProvider, pacer providers.Pacer) *Engine {
	return &Engine{
		store: store,
		tmdb:  tmdb,
		books: books,
		games: games,
		pacer: pacer,
		log:   log.New(log.Writer(), "[enrich] ", log.LstdFlags),
	}
}

// EnrichItem fetches metadata for one item and applies it. Returns
// providers.ErrNoMatch when nothing was found and ErrUnsupportedType for
// categories without a provider; both leave the item untouched.
func (e *Engine) EnrichItem(ctx context.Context, id string) (*Result, error) {
	item, err := e.store.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	result, patch, err := e.fetch(ctx, item)
	if err != nil {
		return nil, e.describeNoMatch(item, err)
	}

	fields := patchedFields(patch)
	if len(fields) > 0 {
		item, err = e.store.UpdateItem(ctx, id, patch)
		if err != nil {
			return nil, fmt.Errorf("apply metadata: %w", err)
		}
		e.log.Printf("enriched %q (%s): %s", item.Title, result.Source, strings.Join(fields, ", "))
	}

	result.Item = item
	result.FieldsUpdated = fields
	return result, nil
}

// EnrichDraft fills an unsaved draft in place from the matching provider.
// Nothing is persisted; bulk import builds its result set this way and leaves
// saving to the caller.
func (e *Engine) EnrichDraft(ctx context.Context, draft *entities.Item) (*Result, error) {
	result, patch, err := e.fetch(ctx, draft)
	if err != nil {
		return nil, e.describeNoMatch(draft, err)
	}

	fields := patchedFields(patch)
	patch.Apply(draft)
	result.Item = draft
	result.FieldsUpdated = fields
	return result, nil
}

// describeNoMatch keys not-found errors by title so batch reports can show
// which lookups came up empty.
func (e *Engine) describeNoMatch(item *entities.Item, err error) error {
	if errors.Is(err, providers.ErrNoMatch) {
		return fmt.Errorf("no match found for %q: %w", item.Title, err)
	}
	return err
}

// EnrichItems runs EnrichItem over a list sequentially, pacing the provider
// calls. progress, when non-nil, is invoked after every item with the number
// processed so far. No-match items count as skipped, not failed.
func (e *Engine) EnrichItems(ctx context.Context, ids []string, progress func(done, total int)) (*BatchResult, error) {
	result := &BatchResult{Total: len(ids)}

	for i, id := range ids {
		if err := e.pacer.Wait(ctx); err != nil {
			result.Errors = append(result.Errors, "operation cancelled")
			return result, err
		}

		_, err := e.EnrichItem(ctx, id)
		switch {
		case err == nil:
			result.Succeeded++
		case errors.Is(err, providers.ErrNoMatch):
			result.Skipped++
			result.Errors = append(result.Errors, err.Error())
		case errors.Is(err, ErrUnsupportedType):
			result.Skipped++
		case providers.IsCredentialError(err):
			// No point hammering the provider for the rest of the batch.
			result.Failed += len(ids) - i
			result.Errors = append(result.Errors, err.Error())
			return result, err
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
		}

		if progress != nil {
			progress(i+1, len(ids))
		}
	}
	return result, nil
}

// MissingLister yields items whose core metadata is incomplete. The local
// items repository implements it; the scheduled sweep uses it.
type MissingLister interface {
	ListMissingMetadata(ctx context.Context) ([]entities.Item, error)
}

// EnrichAllMissing enriches every item that still lacks a description or an
// image. Used by the background sweep.
func (e *Engine) EnrichAllMissing(ctx context.Context, lister MissingLister) (*BatchResult, error) {
	items, err := lister.ListMissingMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items missing metadata: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return e.EnrichItems(ctx, ids, nil)
}

func (e *Engine) fetch(ctx context.Context, item *entities.Item) (*Result, *entities.ItemPatch, error) {
	mediaType, ok := entities.ParseMediaType(item.Type)
	if !ok {
		return nil, nil, ErrUnsupportedType
	}

	switch mediaType {
	case entities.MediaTypeMovie:
		return e.fetchMovie(ctx, item)
	case entities.MediaTypeSeries, entities.MediaTypeAnime:
		return e.fetchTV(ctx, item)
	case entities.MediaTypeBook:
		return e.fetchBook(ctx, item)
	case entities.MediaTypeVideogame:
		return e.fetchGame(ctx, item)
	default:
		return nil, nil, ErrUnsupportedType
	}
}

func (e *Engine) fetchMovie(ctx context.Context, item *entities.Item) (*Result, *entities.ItemPatch, error) {
	match, err := e.tmdb.SearchMovie(ctx, item.Title)
	if err != nil {
		return nil, nil, err
	}
	details, err := e.tmdb.MovieDetails(ctx, match.ID)
	if err != nil {
		return nil, nil, err
	}
	return &Result{Source: providers.SourceTMDB, MatchedTitle: details.Title},
		buildAudiovisualPatch(details), nil
}

func (e *Engine) fetchTV(ctx context.Context, item *entities.Item) (*Result, *entities.ItemPatch, error) {
	match, err := e.tmdb.SearchTV(ctx, item.Title)
	if err != nil {
		return nil, nil, err
	}
	details, err := e.tmdb.TVDetails(ctx, match.ID)
	if err != nil {
		return nil, nil, err
	}
	return &Result{Source: providers.SourceTMDB, MatchedTitle: details.Title},
		buildAudiovisualPatch(details), nil
}

func (e *Engine) fetchBook(ctx context.Context, item *entities.Item) (*Result, *entities.ItemPatch, error) {
	book, err := e.books.Search(ctx, item.Title)
	if err != nil {
		return nil, nil, err
	}
	return &Result{Source: providers.SourceGoogleBooks, MatchedTitle: book.Title},
		buildBookPatch(book), nil
}

func (e *Engine) fetchGame(ctx context.Context, item *entities.Item) (*Result, *entities.ItemPatch, error) {
	match, err := e.games.Search(ctx, item.Title)
	if err != nil {
		return nil, nil, err
	}
	details, err := e.games.Details(ctx, match.ID)
	if err != nil {
		// The search hit alone is still usable.
		details = &providers.GameDetails{GameResult: *match}
	}
	return &Result{Source: providers.SourceRAWG, MatchedTitle: match.Name},
		buildGamePatch(details), nil
}

// rescaleTenPoint converts a 0-10 provider score to the internal 0-5 scale.
// Non-positive scores yield nil so existing ratings survive.
func rescaleTenPoint(score float64) *int {
	return clampRating(score / 2)
}

// roundFivePoint rounds a provider score already on the 0-5 scale.
func roundFivePoint(score float64) *int {
	return clampRating(score)
}

func clampRating(score float64) *int {
	if score <= 0 {
		return nil
	}
	r := int(math.Round(score))
	if r > 5 {
		r = 5
	}
	if r < 0 {
		r = 0
	}
	return &r
}
