package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

// printPeople writes one row per person: face count, distinct photos and the
// representative photo.
func printPeople(out io.Writer, groups []timeline.PersonGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No faces found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERSON\tFACES\tPHOTOS\tREPRESENTATIVE")
	fmt.Fprintln(w, "------\t-----\t------\t--------------")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", g.PersonID, len(g.FaceIDs), distinct(g.Locators), g.Locators[0])
	}
	w.Flush()
}

// printSkipped writes the skipped photo count and, when verbose, each reason.
func printSkipped(out io.Writer, skipped []faces.SkippedPhoto, verbose bool) {
	fmt.Fprintf(out, "Skipped: %d photos\n", len(skipped))
	if !verbose {
		return
	}
	for _, s := range skipped {
		fmt.Fprintf(out, "  %s: %s\n", s.PhotoID, s.Error)
	}
}

// printCacheSummary reports how many scanned photos have cached results and the
// size of the cache. Nothing is printed when the store cannot be queried.
func printCacheSummary(ctx context.Context, out io.Writer, store database.FaceStore, photos []photo.Photo) {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	cached, err := store.CountProcessed(ctx, ids)
	if err != nil {
		return
	}
	total, err := store.Count(ctx)
	if err != nil {
		return
	}
	fmt.Fprintf(out, "Cached: %d of %d photos, %d faces stored\n", cached, len(ids), total)
}

// printDays writes one row per day with its photo count.
func printDays(out io.Writer, groups []timeline.DateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No photos found.")
		return
	}

	total := 0
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tPHOTOS")
	fmt.Fprintln(w, "---\t------")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%d\n", g.Label, len(g.Photos))
		total += len(g.Photos)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal: %d photos on %d days\n", total, len(groups))
}

// printAlbums writes one row per album with its day range in loc.
func printAlbums(out io.Writer, albums []database.Album, loc *time.Location) {
	if len(albums) == 0 {
		fmt.Fprintln(out, "No albums found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tFROM\tTO\tPHOTOS")
	fmt.Fprintln(w, "--\t-----\t----\t--\t------")
	for _, a := range albums {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.Title,
			a.StartDate.In(loc).Format(time.DateOnly), a.EndDate.In(loc).Format(time.DateOnly), a.PhotoCount)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal: %d albums\n", len(albums))
}

// printAlbum writes the album header used by "albums create" and "albums show".
func printAlbum(out io.Writer, a *database.Album, loc *time.Location) {
	fmt.Fprintf(out, "Album:  %s\n", a.Title)
	fmt.Fprintf(out, "ID:     %s\n", a.ID)
	fmt.Fprintf(out, "Range:  %s to %s\n", a.StartDate.In(loc).Format(time.DateOnly), a.EndDate.In(loc).Format(time.DateOnly))
	fmt.Fprintf(out, "Photos: %d\n", a.PhotoCount)
	fmt.Fprintf(out, "Cover:  %s\n", a.CoverLocator)
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
