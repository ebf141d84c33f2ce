package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
)

// EnrichAllItemsTask sweeps every item still missing a description or image
// and enriches it. Runs sequentially so provider calls stay paced.
type EnrichAllItemsTask struct{}

// Config returns the queue configuration for the bulk sweep.
func (t EnrichAllItemsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_all_items",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichAllItemsProcessor creates a processor function for EnrichAllItemsTask.
func EnrichAllItemsProcessor(engine *enrich.Engine, lister enrich.MissingLister) backlite.QueueProcessor[EnrichAllItemsTask] {
	return func(ctx context.Context, task EnrichAllItemsTask) error {
		if engine == nil || lister == nil {
			return fmt.Errorf("enrichment engine not configured")
		}

		result, err := engine.EnrichAllMissing(ctx, lister)
		if err != nil {
			return fmt.Errorf("enrich all items: %w", err)
		}

		log.Printf("[TASK] Enrichment sweep complete: %d total, %d enriched, %d skipped, %d failed",
			result.Total, result.Succeeded, result.Skipped, result.Failed)
		return nil
	}
}

// NewEnrichAllItemsQueue creates a backlite queue for the bulk sweep.
func NewEnrichAllItemsQueue(engine *enrich.Engine, lister enrich.MissingLister) backlite.Queue {
	return backlite.NewQueue(EnrichAllItemsProcessor(engine, lister))
}
