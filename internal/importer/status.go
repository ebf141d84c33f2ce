package importer

import (
	"strings"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// Status keyword sets. Spanish first, matching the historical export format;
// English added for files produced elsewhere. in-progress is checked before
// completed so "leyendo" is never shadowed by a broader match.
var inProgressKeywords = []string{
	"viendo", "jugando", "leyendo", "progreso",
	"watching", "playing", "reading", "in progress", "started",
}

var completedKeywords = []string{
	"visto", "terminado", "acabado", "completado",
	"completed", "finished", "done", "watched",
}

var abandonedKeywords = []string{
	"abandonado", "abandonada", "dropped", "abandoned",
}

// MapStatus normalizes the free-text estado column into a lifecycle status.
// Unknown or empty values default to pending.
func MapStatus(raw string) entities.ItemStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return entities.StatusPending
	}

	for _, kw := range inProgressKeywords {
		if strings.Contains(s, kw) {
			return entities.StatusInProgress
		}
	}
	for _, kw := range completedKeywords {
		if strings.Contains(s, kw) {
			return entities.StatusCompleted
		}
	}
	for _, kw := range abandonedKeywords {
		if strings.Contains(s, kw) {
			return entities.StatusAbandoned
		}
	}
	return entities.StatusPending
}
