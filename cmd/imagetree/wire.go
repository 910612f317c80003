//go:build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/onkernel/imagetree/cmd/imagetree/config"
	"github.com/onkernel/imagetree/lib/images"
	imgotel "github.com/onkernel/imagetree/lib/otel"
	"github.com/onkernel/imagetree/lib/paths"
	"github.com/onkernel/imagetree/lib/providers"
)

// application struct to hold initialized components
type application struct {
	Logger       *slog.Logger
	Config       *config.Config
	Paths        *paths.Paths
	Metrics      *imgotel.TreeMetrics
	ImageManager images.Manager
}

// initializeApp is the injector function
func initializeApp(cfg *config.Config) (*application, func(), error) {
	panic(wire.Build(
		providers.ProvideLogger,
		providers.ProvidePaths,
		providers.ProvideMeter,
		providers.ProvideMetrics,
		providers.ProvideSource,
		providers.ProvideImageManager,
		wire.Struct(new(application), "*"),
	))
}
