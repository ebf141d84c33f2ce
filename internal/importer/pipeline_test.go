package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
)

// fakeDraftEnricher answers per-title and mutates the draft in place the way
// the real engine does.
type fakeDraftEnricher struct {
	results map[string]*enrich.Result
	errs    map[string]error
	calls   int
}

func (f *fakeDraftEnricher) EnrichDraft(ctx context.Context, draft *entities.Item) (*enrich.Result, error) {
	f.calls++
	if err, ok := f.errs[draft.Title]; ok {
		return nil, err
	}
	if result, ok := f.results[draft.Title]; ok {
		draft.Title = result.MatchedTitle
		draft.Description = "descripción del proveedor"
		return result, nil
	}
	return nil, providers.ErrNoMatch
}

type keyCheck bool

func (k keyCheck) HasKey() bool { return bool(k) }

func newTestPipeline(enricher DraftEnricher, tmdb, rawg keyCheck) *Pipeline {
	return NewPipeline(enricher, tmdb, rawg, providers.NopPacer{})
}

func TestRunMixedOutcomes(t *testing.T) {
	enricher := &fakeDraftEnricher{
		results: map[string]*enrich.Result{
			"Matrix": {Source: providers.SourceTMDB, MatchedTitle: "The Matrix"},
		},
		errs: map[string]error{
			"Dark": fmt.Errorf("tmdb request failed: timeout"),
		},
	}
	pipeline := newTestPipeline(enricher, true, false)

	rows := []Row{
		{Line: 2, Title: "Matrix", RawStatus: "Visto"},
		{Line: 3, Title: "zzzzzz"},
		{Line: 4, Title: "Dark", RawStatus: "Viendo"},
	}

	var percents []int
	report, err := pipeline.Run(context.Background(), entities.MediaTypeMovie, rows, func(p int) {
		percents = append(percents, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Enriched != 1 || report.NotFound != 1 || report.Failed != 1 {
		t.Errorf("unexpected counts: %+v", report)
	}
	if len(report.Drafts) != 3 {
		t.Fatalf("expected 3 drafts in order, got %d", len(report.Drafts))
	}

	first := report.Drafts[0]
	if !first.Found || first.Confidence != ConfidenceHigh || first.Matched != "The Matrix" {
		t.Errorf("draft 0: %+v", first)
	}
	if first.Item.Title != "The Matrix" || first.OriginalTitle != "Matrix" {
		t.Errorf("draft 0 should carry provider data and the original title: %+v", first)
	}
	if report.Drafts[1].Found || report.Drafts[1].Confidence != ConfidenceNone {
		t.Errorf("draft 1: %+v", report.Drafts[1])
	}
	if !strings.Contains(report.Drafts[1].Error, "no match found") {
		t.Errorf("draft 1 should record a not-found message: %+v", report.Drafts[1])
	}
	if report.Drafts[2].Error == "" {
		t.Errorf("draft 2 should carry the enrichment error: %+v", report.Drafts[2])
	}

	// Statuses mapped from the estado column.
	if report.Drafts[0].Item.Status != entities.StatusCompleted {
		t.Errorf("row 0 status: %q", report.Drafts[0].Item.Status)
	}
	if report.Drafts[2].Item.Status != entities.StatusInProgress {
		t.Errorf("row 2 status: %q", report.Drafts[2].Item.Status)
	}

	want := []int{33, 67, 100}
	if len(percents) != len(want) {
		t.Fatalf("progress reports: %v", percents)
	}
	for i, p := range want {
		if percents[i] != p {
			t.Errorf("progress[%d] = %d, want %d", i, percents[i], p)
		}
	}
}

func TestRunAbortsWithoutCredentials(t *testing.T) {
	enricher := &fakeDraftEnricher{}
	pipeline := newTestPipeline(enricher, false, false)

	rows := []Row{{Line: 2, Title: "Matrix"}}
	_, err := pipeline.Run(context.Background(), entities.MediaTypeMovie, rows, nil)
	if !providers.IsCredentialError(err) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
	if enricher.calls != 0 {
		t.Error("no provider lookup may run when the precheck fails")
	}
}

func TestRunVideogamesNeedRAWGKey(t *testing.T) {
	pipeline := newTestPipeline(&fakeDraftEnricher{}, true, false)

	_, err := pipeline.Run(context.Background(), entities.MediaTypeVideogame, []Row{{Title: "Hades"}}, nil)
	if !providers.IsCredentialError(err) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
}

func TestRunBooksWorkWithoutKeys(t *testing.T) {
	enricher := &fakeDraftEnricher{
		results: map[string]*enrich.Result{
			"Dune": {Source: providers.SourceGoogleBooks, MatchedTitle: "Dune"},
		},
	}
	pipeline := newTestPipeline(enricher, false, false)

	report, err := pipeline.Run(context.Background(), entities.MediaTypeBook, []Row{{Title: "Dune"}}, nil)
	if err != nil {
		t.Fatalf("book imports must not require keys: %v", err)
	}
	if report.Enriched != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunCredentialFailureMidRunAborts(t *testing.T) {
	enricher := &fakeDraftEnricher{
		errs: map[string]error{
			"Matrix": &providers.CredentialError{Provider: providers.SourceTMDB},
		},
	}
	pipeline := newTestPipeline(enricher, true, false)

	rows := []Row{{Title: "Matrix"}, {Title: "Dark"}}
	report, err := pipeline.Run(context.Background(), entities.MediaTypeMovie, rows, nil)
	if !providers.IsCredentialError(err) {
		t.Fatalf("expected CredentialError, got %v", err)
	}
	if len(report.Drafts) != 1 || enricher.calls != 1 {
		t.Errorf("run should stop after the failing row: %+v", report)
	}
}

func TestRunEmptyRows(t *testing.T) {
	pipeline := newTestPipeline(&fakeDraftEnricher{}, true, true)

	report, err := pipeline.Run(context.Background(), entities.MediaTypeMovie, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 0 || len(report.Drafts) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunBuildsTransientDrafts(t *testing.T) {
	enricher := &fakeDraftEnricher{}
	pipeline := newTestPipeline(enricher, true, false)

	rating := 4
	report, err := pipeline.Run(context.Background(), entities.MediaTypeMovie,
		[]Row{{Title: "Matrix", Rating: &rating}, {Title: "Dark"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := report.Drafts[0].Item
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("drafts need a temporary id and a creation timestamp: %+v", first)
	}
	if first.ID == report.Drafts[1].Item.ID {
		t.Error("temporary ids must be unique per draft")
	}
	if first.Rating == nil || *first.Rating != 4 {
		t.Errorf("row rating should reach the draft: %+v", first)
	}
	if first.Status != entities.StatusPending {
		t.Errorf("blank estado should map to pending: %q", first.Status)
	}
}
