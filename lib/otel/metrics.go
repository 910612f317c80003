// Package otel defines the OpenTelemetry instruments imagetree records.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TreeMetrics holds metrics for image listing.
type TreeMetrics struct {
	RecordsTotal   metric.Int64Counter
	RecordsSkipped metric.Int64Counter
	ListDuration   metric.Float64Histogram
}

// NewTreeMetrics creates metrics for image listing.
func NewTreeMetrics(meter metric.Meter) (*TreeMetrics, error) {
	recordsTotal, err := meter.Int64Counter(
		"imagetree_records_total",
		metric.WithDescription("Total number of valid image records listed"),
	)
	if err != nil {
		return nil, err
	}

	recordsSkipped, err := meter.Int64Counter(
		"imagetree_records_skipped_total",
		metric.WithDescription("Total number of malformed or duplicate image records skipped"),
	)
	if err != nil {
		return nil, err
	}

	listDuration, err := meter.Float64Histogram(
		"imagetree_list_duration_seconds",
		metric.WithDescription("Time to list and normalize images from a source"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &TreeMetrics{
		RecordsTotal:   recordsTotal,
		RecordsSkipped: recordsSkipped,
		ListDuration:   listDuration,
	}, nil
}

// RecordList records the outcome of one listing from source.
func (m *TreeMetrics) RecordList(ctx context.Context, source string, records, skipped int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("source", source))

	m.RecordsTotal.Add(ctx, int64(records), attrs)
	m.RecordsSkipped.Add(ctx, int64(skipped), attrs)
	m.ListDuration.Record(ctx, duration.Seconds(), attrs)
}
