package remote

import (
	"time"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

// The remote record store keeps a narrower, snake_case schema than the local
// model (it predates the adaptive-metadata fields). Outbound mapping drops
// fields the remote schema does not declare. Timestamps travel as ISO 8601
// strings.

// ItemRecord is the remote store's native item shape.
type ItemRecord struct {
	ID            string   `json:"id,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	Tipo          string   `json:"tipo,omitempty"`
	Titulo        string   `json:"titulo,omitempty"`
	Estado        string   `json:"estado,omitempty"`
	Rating        *int     `json:"rating,omitempty"`
	Descripcion   string   `json:"descripcion,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Imagen        string   `json:"imagen,omitempty"`
	FechaCreacion string   `json:"fecha_creacion,omitempty"`
	FechaInicio   string   `json:"fecha_inicio,omitempty"`
	FechaFin      string   `json:"fecha_fin,omitempty"`
}

// NoteRecord is the remote store's native note shape.
type NoteRecord struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	Contenido string `json:"contenido,omitempty"`
	EsSpoiler bool   `json:"es_spoiler"`
	TipoHito  string `json:"tipo_hito,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ToItemRecord converts an internal item into the remote shape. Fields the
// remote schema does not support are silently dropped.
func ToItemRecord(item *entities.Item) ItemRecord {
	return ItemRecord{
		ID:            item.ID,
		Tipo:          item.Type,
		Titulo:        item.Title,
		Estado:        string(item.Status),
		Rating:        item.Rating,
		Descripcion:   item.Description,
		Tags:          item.Tags,
		Imagen:        item.Image,
		FechaCreacion: formatTime(&item.CreatedAt),
		FechaInicio:   formatTime(item.StartedAt),
		FechaFin:      formatTime(item.FinishedAt),
	}
}

// FromItemRecord converts a remote record back into the internal model.
// Absent fields stay at their zero value; malformed timestamps are dropped
// rather than failing the whole record.
func FromItemRecord(rec ItemRecord) *entities.Item {
	item := &entities.Item{
		ID:          rec.ID,
		Type:        rec.Tipo,
		Title:       rec.Titulo,
		Status:      entities.ItemStatus(rec.Estado),
		Rating:      rec.Rating,
		Description: rec.Descripcion,
		Tags:        rec.Tags,
		Image:       rec.Imagen,
	}
	if t := parseTime(rec.FechaCreacion); t != nil {
		item.CreatedAt = *t
	}
	item.StartedAt = parseTime(rec.FechaInicio)
	item.FinishedAt = parseTime(rec.FechaFin)
	return item
}

// ItemPatchColumns converts a partial update into remote column assignments.
// Only fields present in the patch and supported by the remote schema appear
// in the result.
func ItemPatchColumns(patch *entities.ItemPatch) map[string]any {
	cols := map[string]any{}
	if patch == nil {
		return cols
	}
	if patch.Type != nil {
		cols["tipo"] = *patch.Type
	}
	if patch.Title != nil {
		cols["titulo"] = *patch.Title
	}
	if patch.Status != nil {
		cols["estado"] = string(*patch.Status)
	}
	if patch.Rating != nil {
		cols["rating"] = *patch.Rating
	}
	if patch.Description != nil {
		cols["descripcion"] = *patch.Description
	}
	if patch.Tags != nil {
		cols["tags"] = *patch.Tags
	}
	if patch.Image != nil {
		cols["imagen"] = *patch.Image
	}
	if patch.StartedAt != nil {
		cols["fecha_inicio"] = patch.StartedAt.UTC().Format(time.RFC3339)
	}
	if patch.FinishedAt != nil {
		cols["fecha_fin"] = patch.FinishedAt.UTC().Format(time.RFC3339)
	}
	return cols
}

// ToNoteRecord converts an internal note into the remote shape.
func ToNoteRecord(note *entities.Note) NoteRecord {
	return NoteRecord{
		ID:        note.ID,
		ItemID:    note.ItemID,
		Contenido: note.Content,
		EsSpoiler: note.Spoiler,
		TipoHito:  string(note.Milestone),
		CreatedAt: formatTime(&note.CreatedAt),
	}
}

// FromNoteRecord converts a remote note record back into the internal model.
func FromNoteRecord(rec NoteRecord) *entities.Note {
	note := &entities.Note{
		ID:        rec.ID,
		ItemID:    rec.ItemID,
		Content:   rec.Contenido,
		Spoiler:   rec.EsSpoiler,
		Milestone: entities.MilestoneType(rec.TipoHito),
	}
	if note.Milestone == "" {
		note.Milestone = entities.MilestoneNone
	}
	if t := parseTime(rec.CreatedAt); t != nil {
		note.CreatedAt = *t
	}
	return note
}

// NotePatchColumns converts a partial note update into remote column
// assignments.
func NotePatchColumns(patch *entities.NotePatch) map[string]any {
	cols := map[string]any{}
	if patch == nil {
		return cols
	}
	if patch.Content != nil {
		cols["contenido"] = *patch.Content
	}
	if patch.Spoiler != nil {
		cols["es_spoiler"] = *patch.Spoiler
	}
	if patch.Milestone != nil {
		cols["tipo_hito"] = string(*patch.Milestone)
	}
	return cols
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime accepts the ISO shapes the remote store emits: RFC 3339 with or
// without fractional seconds, and bare dates.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
