package images

import (
	"context"
	"fmt"
	"time"

	"github.com/onkernel/imagetree/lib/logger"
	imgotel "github.com/onkernel/imagetree/lib/otel"
)

// Manager produces the normalized, display-ordered list of local images.
type Manager interface {
	ListImages(ctx context.Context) ([]Record, error)
}

type manager struct {
	source  Source
	metrics *imgotel.TreeMetrics
}

// NewManager creates an image manager over source. metrics may be nil.
func NewManager(source Source, metrics *imgotel.TreeMetrics) Manager {
	return &manager{
		source:  source,
		metrics: metrics,
	}
}

func (m *manager) ListImages(ctx context.Context) ([]Record, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	raws, err := m.source.ListRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s images: %w", m.source.Name(), err)
	}

	records, skipped := Normalize(ctx, raws)
	SortRecords(records)

	elapsed := time.Since(start)
	log.DebugContext(ctx, "listed images",
		"source", m.source.Name(),
		"records", len(records),
		"skipped", skipped,
		"duration", elapsed)

	if m.metrics != nil {
		m.metrics.RecordList(ctx, m.source.Name(), len(records), skipped, elapsed)
	}

	return records, nil
}
