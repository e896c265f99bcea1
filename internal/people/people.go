// Package people runs the list, scan, cluster and group pipeline over a date
// range of the library.
package people

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/library"
	"github.com/kozaktomas/lifeline/internal/metrics"
	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

// Report is the outcome of one run.
type Report struct {
	Photos   []photo.Photo
	Scan     *faces.Result
	Clusters []clustering.PersonCluster
	People   []timeline.PersonGroup
	Duration time.Duration
}

// Pipeline wires a library and a detector into person groups.
type Pipeline struct {
	Library     library.Library
	Detector    faces.Detector
	Cache       faces.Cache
	Metrics     *metrics.Collector
	Concurrency int
	Log         zerolog.Logger
}

// Events receives pipeline progress. All callbacks are optional.
type Events struct {
	// Listed is called once with the number of photos found in the range.
	Listed func(total int)
	// Progress is called after each photo is scanned.
	Progress faces.ProgressFunc
}

// Run lists the photos in r, extracts their faces, and clusters them with the
// given threshold. Skipped photos are reported, not fatal. Cancelling ctx
// discards the run.
func (p *Pipeline) Run(ctx context.Context, r photo.DateRange, threshold float64, ev Events) (*Report, error) {
	started := time.Now()

	photos, err := p.Library.ListPhotos(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	if ev.Listed != nil {
		ev.Listed(len(photos))
	}

	opts := []faces.Option{faces.WithConcurrency(p.Concurrency), faces.WithLogger(p.Log)}
	if p.Cache != nil {
		opts = append(opts, faces.WithCache(p.Cache))
	}
	if p.Metrics != nil {
		opts = append(opts, faces.WithObserver(p.Metrics))
	}

	result, err := faces.NewScanner(p.Library, p.Detector, opts...).Scan(ctx, photos, ev.Progress)
	if err != nil {
		return nil, fmt.Errorf("scan faces: %w", err)
	}

	clusters := clustering.Cluster(result.Faces, threshold)
	groups, err := timeline.GroupByPerson(clusters, result.Faces)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Photos:   photos,
		Scan:     result,
		Clusters: clusters,
		People:   groups,
		Duration: time.Since(started),
	}
	if p.Metrics != nil {
		p.Metrics.ClustersFormed(len(clusters))
		p.Metrics.ObserveScan(report.Duration)
	}

	p.Log.Info().
		Int("photos", len(photos)).
		Int("faces", len(result.Faces)).
		Int("skipped", len(result.Skipped)).
		Int("people", len(clusters)).
		Dur("duration", report.Duration).
		Msg("people run finished")

	return report, nil
}
