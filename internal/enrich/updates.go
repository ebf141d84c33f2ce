package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/JordiMolto/MyMediaVerse/internal/entities"
	"github.com/JordiMolto/MyMediaVerse/internal/providers"
)

// The patch builders follow one rule: the provider wins for every field it
// actually supplies, and an empty provider value never clears what is already
// stored. Personal fields (review, tags, consumption stats) are never touched.

func buildAudiovisualPatch(d *providers.TMDBDetails) *entities.ItemPatch {
	patch := &entities.ItemPatch{}
	setString(&patch.Title, d.Title)
	setString(&patch.Description, d.Overview)
	setString(&patch.Image, d.PosterURL)
	setString(&patch.Backdrop, d.BackdropURL)
	setString(&patch.Tagline, d.Tagline)
	setString(&patch.Director, d.Director)
	setString(&patch.Trailer, d.TrailerURL)
	setStrings(&patch.Genres, d.Genres)
	setStrings(&patch.Cast, d.Cast)
	setStrings(&patch.StreamingPlatforms, d.StreamingPlatforms)
	if d.Runtime > 0 {
		patch.Duration = &d.Runtime
	}
	if d.NumberOfSeasons > 0 {
		patch.NumberOfSeasons = &d.NumberOfSeasons
	}
	if d.NumberOfEpisodes > 0 {
		patch.NumberOfEpisodes = &d.NumberOfEpisodes
	}
	if released, ok := parseProviderDate(d.ReleaseDate); ok {
		patch.StartedAt = &released
	}
	patch.Rating = rescaleTenPoint(d.VoteAverage)
	return patch
}

func buildBookPatch(b *providers.BookResult) *entities.ItemPatch {
	patch := &entities.ItemPatch{}
	setString(&patch.Title, b.Title)
	setString(&patch.Description, b.Description)
	setString(&patch.Image, b.CoverURL)
	setString(&patch.Author, strings.Join(b.Authors, ", "))
	setString(&patch.Publisher, b.Publisher)
	setStrings(&patch.Genres, b.Categories)
	if b.PageCount > 0 {
		patch.Duration = &b.PageCount // pages, not minutes, for books
	}
	patch.Rating = roundFivePoint(b.Rating)
	return patch
}

func buildGamePatch(g *providers.GameDetails) *entities.ItemPatch {
	patch := &entities.ItemPatch{}
	setString(&patch.Title, g.Name)
	setString(&patch.Description, g.Description)
	setString(&patch.Image, g.BackgroundImage)
	setString(&patch.Developer, strings.Join(g.Developers, ", "))
	setString(&patch.Platform, strings.Join(g.Platforms, ", "))
	setStrings(&patch.Genres, g.Genres)
	if g.Playtime > 0 {
		estimated := fmt.Sprintf("%d h", g.Playtime)
		patch.EstimatedTime = &estimated
	}
	if released, ok := parseProviderDate(g.Released); ok {
		patch.StartedAt = &released
	}
	patch.Rating = roundFivePoint(g.Rating)
	return patch
}

func setString(dst **string, value string) {
	if value != "" {
		*dst = &value
	}
}

func setStrings(dst **[]string, value []string) {
	if len(value) > 0 {
		*dst = &value
	}
}

// parseProviderDate reads the providers' plain "YYYY-MM-DD" release dates.
func parseProviderDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// patchedFields lists the remote column names a patch would touch; used for
// logging and the per-call result.
func patchedFields(patch *entities.ItemPatch) []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("title", patch.Title != nil)
	add("description", patch.Description != nil)
	add("image", patch.Image != nil)
	add("backdrop", patch.Backdrop != nil)
	add("tagline", patch.Tagline != nil)
	add("rating", patch.Rating != nil)
	add("duration", patch.Duration != nil)
	add("started_at", patch.StartedAt != nil)
	add("genres", patch.Genres != nil)
	add("cast", patch.Cast != nil)
	add("director", patch.Director != nil)
	add("author", patch.Author != nil)
	add("publisher", patch.Publisher != nil)
	add("developer", patch.Developer != nil)
	add("platform", patch.Platform != nil)
	add("trailer", patch.Trailer != nil)
	add("streaming_platforms", patch.StreamingPlatforms != nil)
	add("number_of_seasons", patch.NumberOfSeasons != nil)
	add("number_of_episodes", patch.NumberOfEpisodes != nil)
	add("estimated_time", patch.EstimatedTime != nil)
	return fields
}
