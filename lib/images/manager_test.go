package images

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	imgotel "github.com/onkernel/imagetree/lib/otel"
)

type fakeSource struct {
	raws []RawRecord
	err  error
}

func (f *fakeSource) Name() string {
	return "fake"
}

func (f *fakeSource) ListRaw(ctx context.Context) ([]RawRecord, error) {
	return f.raws, f.err
}

func TestListImages(t *testing.T) {
	src := &fakeSource{raws: []RawRecord{
		{ID: hexC, Created: "2022-11-22T22:19:31Z", Size: "3"},
		{ID: hexB, RepoTags: []string{"b:1"}, Created: "2022-11-22T22:19:30Z", Size: "2"},
		{ID: "bogus", Created: "2022-11-22T22:19:30Z", Size: "2"},
		{ID: hexA, RepoTags: []string{"a:1"}, Created: "2022-11-22T22:19:29Z", Size: "1"},
	}}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := imgotel.NewTreeMetrics(provider.Meter("test"))
	require.NoError(t, err)

	mgr := NewManager(src, metrics)
	records, err := mgr.ListImages(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{hexA, hexB, hexC}, ids)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := make(map[string]int64)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(3), sums["imagetree_records_total"])
	assert.Equal(t, int64(1), sums["imagetree_records_skipped_total"])
}

func TestListImagesWithoutMetrics(t *testing.T) {
	mgr := NewManager(&fakeSource{}, nil)

	records, err := mgr.ListImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListImagesSourceError(t *testing.T) {
	boom := errors.New("daemon unavailable")
	mgr := NewManager(&fakeSource{err: boom}, nil)

	_, err := mgr.ListImages(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list fake images")
}
