package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/JordiMolto/MyMediaVerse/internal/enrich"
)

// EnrichItemTask fetches metadata for a single item. Queue workers carry no
// session, so the lookup and the write both land on the local store.
type EnrichItemTask struct {
	ItemID string `json:"item_id"`
}

// Config returns the queue configuration for item enrichment tasks.
func (t EnrichItemTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_item",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichItemProcessor creates a processor function for EnrichItemTask.
func EnrichItemProcessor(engine *enrich.Engine) backlite.QueueProcessor[EnrichItemTask] {
	return func(ctx context.Context, task EnrichItemTask) error {
		if engine == nil {
			return fmt.Errorf("enrichment engine not configured")
		}

		result, err := engine.EnrichItem(ctx, task.ItemID)
		if err != nil {
			return fmt.Errorf("enrich item %s: %w", task.ItemID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			log.Printf("[TASK] Enriched item %s (%s): updated %v via %s",
				task.ItemID, result.Item.Title, result.FieldsUpdated, result.Source)
		} else {
			log.Printf("[TASK] Item %s (%s): no metadata updates needed",
				task.ItemID, result.Item.Title)
		}
		return nil
	}
}

// NewEnrichItemQueue creates a backlite queue for item enrichment tasks.
func NewEnrichItemQueue(engine *enrich.Engine) backlite.Queue {
	return backlite.NewQueue(EnrichItemProcessor(engine))
}
