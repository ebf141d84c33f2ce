package entities

import "testing"

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		input    string
		expected MediaType
		ok       bool
	}{
		{"movie", MediaTypeMovie, true},
		{"Movie", MediaTypeMovie, true},
		{"película", MediaTypeMovie, true},
		{"Pelicula", MediaTypeMovie, true},
		{"series", MediaTypeSeries, true},
		{"Serie TV", MediaTypeSeries, true},
		{"anime", MediaTypeAnime, true},
		{"Serie de Anime", MediaTypeAnime, true},
		{"book", MediaTypeBook, true},
		{"Libro", MediaTypeBook, true},
		{"videogame", MediaTypeVideogame, true},
		{"Videojuego", MediaTypeVideogame, true},
		{"juego de mesa", MediaTypeBoardgame, true},
		{"boardgame", MediaTypeBoardgame, true},
		{"  movie  ", MediaTypeMovie, true},
		{"", "", false},
		{"música", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMediaType(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseMediaType(%q) = (%q, %v), expected (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestItemPatchApplyPreservesUnsetFields(t *testing.T) {
	rating := 4
	item := &Item{
		ID:     "abc",
		Type:   string(MediaTypeMovie),
		Title:  "Matrix",
		Status: StatusPending,
		Rating: &rating,
		Genres: []string{"Sci-Fi"},
	}

	newTitle := "The Matrix"
	status := StatusCompleted
	patch := &ItemPatch{Title: &newTitle, Status: &status}
	patch.Apply(item)

	if item.Title != "The Matrix" {
		t.Errorf("title not updated: %q", item.Title)
	}
	if item.Status != StatusCompleted {
		t.Errorf("status not updated: %q", item.Status)
	}
	if item.Rating == nil || *item.Rating != 4 {
		t.Error("rating should be preserved")
	}
	if len(item.Genres) != 1 || item.Genres[0] != "Sci-Fi" {
		t.Error("genres should be preserved")
	}
}

func TestItemPatchApplyEmptyListOverwrites(t *testing.T) {
	item := &Item{Genres: []string{"Sci-Fi"}}
	empty := []string{}
	patch := &ItemPatch{Genres: &empty}
	patch.Apply(item)
	if len(item.Genres) != 0 {
		t.Error("explicitly supplied empty list should overwrite")
	}
}
