package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Título,Estado,Nota",
		"Matrix,Visto,9",
		",Visto,5",
		"Dune,,",
		`"El nombre del viento",Leyendo,`,
	}, "\n")

	rows, skipped, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "no title") {
		t.Errorf("titleless row should be skipped with a reason, got %v", skipped)
	}

	if rows[0].Title != "Matrix" || rows[0].RawStatus != "Visto" {
		t.Errorf("row 0: %+v", rows[0])
	}
	if rows[0].Rating == nil || *rows[0].Rating != 5 {
		t.Errorf("nota 9 on the 0-10 scale should become 5, got %v", rows[0].Rating)
	}
	if rows[1].Title != "Dune" || rows[1].Rating != nil {
		t.Errorf("row 1: %+v", rows[1])
	}
	if rows[2].Title != "El nombre del viento" {
		t.Errorf("row 2: %+v", rows[2])
	}
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	if err == nil {
		t.Fatal("a file without a header line is an error")
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		input string
		want  int // -1 means nil
	}{
		{"", -1},
		{"abc", -1},
		{"0", -1},
		{"3", 3},
		{"5", 5},
		{"7,5", 4},
		{"8", 4},
		{"10", 5},
	}
	for _, tt := range tests {
		got := parseRating(tt.input)
		if tt.want == -1 {
			if got != nil {
				t.Errorf("parseRating(%q) = %v, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseRating(%q) = %v, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseFileDispatch(t *testing.T) {
	_, _, err := ParseFile("data.pdf", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
}

func TestTemplateCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplateCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, skipped, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("template must parse cleanly: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("template rows should not be skipped: %v", skipped)
	}
	if len(rows) != 3 {
		t.Fatalf("expected the 3 example rows, got %d", len(rows))
	}
	if MapStatus(rows[1].RawStatus) != entities.StatusCompleted {
		t.Errorf("example row 'Terminado' should map to completed")
	}
}

func TestTemplateXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplateXLSX(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, skipped, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("template workbook must parse cleanly: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("template rows should not be skipped: %v", skipped)
	}
	if len(rows) != 3 || rows[0].Title != "El nombre del viento" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		input string
		want  entities.ItemStatus
	}{
		{"", entities.StatusPending},
		{"Pendiente", entities.StatusPending},
		{"Viendo", entities.StatusInProgress},
		{"jugando ahora", entities.StatusInProgress},
		{"Leyendo", entities.StatusInProgress},
		{"en progreso", entities.StatusInProgress},
		{"Visto", entities.StatusCompleted},
		{"TERMINADO", entities.StatusCompleted},
		{"acabado", entities.StatusCompleted},
		{"Completado", entities.StatusCompleted},
		{"watching", entities.StatusInProgress},
		{"finished", entities.StatusCompleted},
		{"abandonado", entities.StatusAbandoned},
		{"dropped", entities.StatusAbandoned},
		{"???", entities.StatusPending},
	}
	for _, tt := range tests {
		if got := MapStatus(tt.input); got != tt.want {
			t.Errorf("MapStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAssessConfidence(t *testing.T) {
	tests := []struct {
		query   string
		matched string
		want    MatchConfidence
	}{
		{"Matrix", "", ConfidenceNone},
		{"Matrix", "Matrix", ConfidenceHigh},
		{"matrix", "The Matrix", ConfidenceHigh}, // containment
		{"El nombre del vient", "El nombre del viento", ConfidenceHigh},
		{"Matrix", "Speed Racer", ConfidenceLow},
		{"Dark", "Dack", ConfidenceHigh}, // one edit over four runes
	}
	for _, tt := range tests {
		if got := AssessConfidence(tt.query, tt.matched); got != tt.want {
			t.Errorf("AssessConfidence(%q, %q) = %q, want %q", tt.query, tt.matched, got, tt.want)
		}
	}
}
