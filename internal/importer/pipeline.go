package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
)

// DraftEnricher fills an unsaved draft item in place from a metadata provider.
type DraftEnricher interface {
	EnrichDraft(ctx context.Context, draft *entities.Item) (*enrich.Result, error)
}

// CredentialCheck answers whether a provider has a usable API key.
type CredentialCheck interface {
	HasKey() bool
}

// Draft is the per-row outcome, in file order. Item carries a temporary id
// until the caller saves the draft through the storage router.
type Draft struct {
	Row           Row             `json:"row"`
	Item          *entities.Item  `json:"item"`
	OriginalTitle string          `json:"original_title"`
	Found         bool            `json:"found"`
	Confidence    MatchConfidence `json:"confidence"`
	Source        string          `json:"source,omitempty"`
	Matched       string          `json:"matched_title,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Report summarizes one import run.
type Report struct {
	Total    int      `json:"total"`
	Enriched int      `json:"enriched"`
	NotFound int      `json:"not_found"`
	Failed   int      `json:"failed"`
	Skipped  []string `json:"skipped,omitempty"` // parse-stage skips, passed through
	Drafts   []Draft  `json:"drafts"`
}

// Pipeline turns parsed rows into enriched drafts. It never writes to a
// store; the caller reviews the drafts and saves the ones it wants through
// the storage router.
type Pipeline struct {
	enricher DraftEnricher
	tmdbKey  CredentialCheck
	rawgKey  CredentialCheck
	pacer    providers.Pacer
	log      *log.Logger
}

// NewPipeline wires the import pipeline. pacer spaces the per-row enrichment
// calls; tests pass providers.NopPacer{}.
func NewPipeline(enricher DraftEnricher, tmdbKey, rawgKey CredentialCheck, pacer providers.Pacer) *Pipeline {
	return &Pipeline{
		enricher: enricher,
		tmdbKey:  tmdbKey,
		rawgKey:  rawgKey,
		pacer:    pacer,
		log:      log.New(log.Writer(), "[import] ", log.LstdFlags),
	}
}

// Run builds one draft per row, all of one category, enriching each in file
// order. progress, when non-nil, receives a 0-100 percentage after every row.
// The run aborts before enriching anything when the category's provider has
// no API key.
func (p *Pipeline) Run(ctx context.Context, mediaType entities.MediaType, rows []Row, progress func(percent int)) (*Report, error) {
	if err := p.checkCredentials(mediaType); err != nil {
		return nil, err
	}

	report := &Report{Total: len(rows), Drafts: make([]Draft, 0, len(rows))}

	for i, row := range rows {
		item := &entities.Item{
			ID:        uuid.NewString(), // temporary, replaced when the draft is saved
			Type:      string(mediaType),
			Title:     row.Title,
			Status:    MapStatus(row.RawStatus),
			Rating:    row.Rating,
			CreatedAt: time.Now().UTC(),
		}
		draft := Draft{Row: row, Item: item, OriginalTitle: row.Title, Confidence: ConfidenceNone}

		if err := p.pacer.Wait(ctx); err != nil {
			draft.Error = "operation cancelled"
			report.Failed++
			report.Drafts = append(report.Drafts, draft)
			return report, err
		}

		result, err := p.enricher.EnrichDraft(ctx, item)
		switch {
		case err == nil:
			draft.Found = true
			draft.Source = result.Source
			draft.Matched = result.MatchedTitle
			draft.Confidence = AssessConfidence(row.Title, result.MatchedTitle)
			report.Enriched++
		case errors.Is(err, providers.ErrNoMatch), errors.Is(err, enrich.ErrUnsupportedType):
			// Informational; the draft keeps its row-derived values.
			draft.Error = fmt.Sprintf("no match found for %q", row.Title)
			report.NotFound++
		case providers.IsCredentialError(err):
			// The key died mid-run; stop instead of burning the remaining rows.
			draft.Error = err.Error()
			report.Failed++
			report.Drafts = append(report.Drafts, draft)
			return report, err
		default:
			draft.Error = err.Error()
			report.Failed++
		}

		report.Drafts = append(report.Drafts, draft)
		p.report(progress, i+1, len(rows))
	}

	p.log.Printf("prepared %d drafts as %s (%d enriched, %d not found, %d failed)",
		report.Total, mediaType, report.Enriched, report.NotFound, report.Failed)
	return report, nil
}

func (p *Pipeline) checkCredentials(mediaType entities.MediaType) error {
	switch mediaType {
	case entities.MediaTypeMovie, entities.MediaTypeSeries, entities.MediaTypeAnime:
		if p.tmdbKey == nil || !p.tmdbKey.HasKey() {
			return &providers.CredentialError{Provider: providers.SourceTMDB}
		}
	case entities.MediaTypeVideogame:
		if p.rawgKey == nil || !p.rawgKey.HasKey() {
			return &providers.CredentialError{Provider: providers.SourceRAWG}
		}
	}
	// Books work anonymously; boardgames import without enrichment.
	return nil
}

func (p *Pipeline) report(progress func(int), done, total int) {
	if progress == nil || total == 0 {
		return
	}
	progress(int(math.Round(float64(done) / float64(total) * 100)))
}
