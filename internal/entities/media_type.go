package entities

import "strings"

// MediaType is the closed set of item categories. Items created through older
// clients may carry free-text values ("Película", "Serie TV"), so raw category
// strings must go through ParseMediaType at ingestion boundaries.
type MediaType string

const (
	MediaTypeMovie     MediaType = "movie"
	MediaTypeSeries    MediaType = "series"
	MediaTypeAnime     MediaType = "anime"
	MediaTypeBook      MediaType = "book"
	MediaTypeVideogame MediaType = "videogame"
	MediaTypeBoardgame MediaType = "boardgame"
)

// mediaTypeSynonyms maps lowercase substrings to a canonical type. Spanish
// spellings come first because legacy data was stored in Spanish.
// Order matters: "juego de mesa" must win over the bare "juego" of videogames.
var mediaTypeSynonyms = []struct {
	token string
	t     MediaType
}{
	{"anime", MediaTypeAnime},
	{"serie", MediaTypeSeries},
	{"series", MediaTypeSeries},
	{"tv", MediaTypeSeries},
	{"mesa", MediaTypeBoardgame},
	{"board", MediaTypeBoardgame},
	{"videojuego", MediaTypeVideogame},
	{"videogame", MediaTypeVideogame},
	{"juego", MediaTypeVideogame},
	{"game", MediaTypeVideogame},
	{"libro", MediaTypeBook},
	{"book", MediaTypeBook},
	{"pelicula", MediaTypeMovie},
	{"película", MediaTypeMovie},
	{"movie", MediaTypeMovie},
	{"film", MediaTypeMovie},
}

// ParseMediaType normalizes a free-text category into a MediaType.
// The second return value is false when nothing matched.
func ParseMediaType(raw string) (MediaType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	// Exact canonical values short-circuit the synonym scan.
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeSeries, MediaTypeAnime, MediaTypeBook, MediaTypeVideogame, MediaTypeBoardgame:
		return MediaType(s), true
	}

	for _, syn := range mediaTypeSynonyms {
		if strings.Contains(s, syn.token) {
			return syn.t, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (t MediaType) String() string {
	return string(t)
}
