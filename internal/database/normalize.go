package database

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeTitle normalizes an album title for comparison (lowercase, no diacritics, single spaces).
func NormalizeTitle(title string) string {
	title = strings.ToLower(RemoveDiacritics(title))
	return strings.Join(strings.Fields(title), " ")
}

// MatchesQuery reports whether the title contains the query after normalization.
// An empty query matches everything.
func MatchesQuery(title, query string) bool {
	q := NormalizeTitle(query)
	if q == "" {
		return true
	}
	return strings.Contains(NormalizeTitle(title), q)
}

// FilterAlbums keeps albums whose title matches the query.
func FilterAlbums(albums []Album, query string) []Album {
	if NormalizeTitle(query) == "" {
		return albums
	}
	filtered := make([]Album, 0, len(albums))
	for _, a := range albums {
		if MatchesQuery(a.Title, query) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
