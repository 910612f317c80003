package providers

import (
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/onkernel/imagetree/cmd/imagetree/config"
	"github.com/onkernel/imagetree/lib/images"
	"github.com/onkernel/imagetree/lib/logger"
	imgotel "github.com/onkernel/imagetree/lib/otel"
	"github.com/onkernel/imagetree/lib/paths"
)

// meterName is the instrumentation scope of imagetree metrics.
const meterName = "github.com/onkernel/imagetree"

// ProvideLogger provides a structured logger writing to stderr
func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.NewConfig(cfg.LogLevel, cfg.LogFormat), os.Stderr)
}

// ProvidePaths provides the paths
func ProvidePaths(cfg *config.Config) *paths.Paths {
	return paths.New(cfg.DataDir)
}

// ProvideMeter provides the meter from the global meter provider. The binary
// installs no provider, so instruments are no-ops unless an embedding process
// calls otel.SetMeterProvider first.
func ProvideMeter() metric.Meter {
	return otel.Meter(meterName)
}

// ProvideMetrics provides the image listing metrics
func ProvideMetrics(meter metric.Meter) (*imgotel.TreeMetrics, error) {
	return imgotel.NewTreeMetrics(meter)
}

// ProvideSource provides the image source selected by the configuration.
// The cleanup function releases any connection the source holds.
func ProvideSource(cfg *config.Config, p *paths.Paths, log *slog.Logger) (images.Source, func(), error) {
	noop := func() {}

	switch cfg.Source {
	case images.SourceDocker:
		src, err := images.NewDockerSource(cfg.DockerHost, cfg.Concurrency)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {
			if err := src.Close(); err != nil {
				log.Debug("failed to close docker client", "error", err)
			}
		}, nil

	case images.SourceSnapshot:
		file := cfg.SnapshotPath
		if file == "" {
			file = p.Snapshot()
		}
		log.Debug("reading image snapshot", "path", file)
		return images.NewSnapshotSource(file, os.Stdin), noop, nil

	case images.SourceOCI:
		layout, err := p.Layout(cfg.LayoutPath)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("reading oci layout", "path", layout)
		return images.NewLayoutSource(layout, cfg.Concurrency), noop, nil

	case images.SourceArchive:
		if cfg.ArchivePath == "" {
			return nil, nil, images.ErrNoArchive
		}
		return images.NewArchiveSource(cfg.ArchivePath), noop, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", images.ErrUnknownSource, cfg.Source)
}

// ProvideImageManager provides the image manager
func ProvideImageManager(source images.Source, metrics *imgotel.TreeMetrics) images.Manager {
	return images.NewManager(source, metrics)
}
