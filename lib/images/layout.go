package images

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/opencontainers/go-digest"
	ispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/opencontainers/umoci/oci/cas/dir"
	"github.com/opencontainers/umoci/oci/casext"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/onkernel/imagetree/lib/logger"
)

// layoutSource lists the images referenced by an OCI image layout directory.
// Each reference name becomes a tag; references resolving to the same config
// are merged into one image.
type layoutSource struct {
	dir         string
	concurrency int
}

// NewLayoutSource creates a Source over the OCI layout at dir. Image configs
// are read with at most concurrency parallel workers.
func NewLayoutSource(dir string, concurrency int) Source {
	if concurrency < 1 {
		concurrency = 1
	}
	return &layoutSource{dir: dir, concurrency: concurrency}
}

func (s *layoutSource) Name() string {
	return SourceOCI
}

// layoutImage is one resolved reference of the layout.
type layoutImage struct {
	ref      string
	configID string
	created  *time.Time
	size     int64
	diffIDs  []string
}

func (s *layoutSource) ListRaw(ctx context.Context) ([]RawRecord, error) {
	log := logger.FromContext(ctx)

	casEngine, err := dir.Open(s.dir)
	if err != nil {
		return nil, fmt.Errorf("open oci layout: %w", err)
	}
	defer casEngine.Close()

	engine := casext.NewEngine(casEngine)

	refs, err := engine.ListReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	slices.Sort(refs)

	resolved := make([]*layoutImage, len(refs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.concurrency)
	for i, ref := range refs {
		grp.Go(func() error {
			img, err := readLayoutImage(gctx, engine, ref)
			if err != nil {
				log.WarnContext(gctx, "skipping unreadable layout reference", "ref", ref, "error", err)
				return nil
			}
			resolved[i] = img
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mergeLayoutImages(lo.Compact(resolved)), nil
}

func readLayoutImage(ctx context.Context, engine casext.Engine, ref string) (*layoutImage, error) {
	descriptorPaths, err := engine.ResolveReference(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve reference: %w", err)
	}
	if len(descriptorPaths) == 0 {
		return nil, fmt.Errorf("no image found for reference")
	}

	manifestBlob, err := engine.FromDescriptor(ctx, descriptorPaths[0].Descriptor())
	if err != nil {
		return nil, fmt.Errorf("get manifest: %w", err)
	}
	manifest, ok := manifestBlob.Data.(ispec.Manifest)
	if !ok {
		return nil, fmt.Errorf("manifest data is not v1.Manifest (got %T)", manifestBlob.Data)
	}

	configBlob, err := engine.FromDescriptor(ctx, manifest.Config)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	config, ok := configBlob.Data.(ispec.Image)
	if !ok {
		return nil, fmt.Errorf("config data is not v1.Image (got %T)", configBlob.Data)
	}

	size := manifest.Config.Size
	for _, l := range manifest.Layers {
		size += l.Size
	}

	return &layoutImage{
		ref:      ref,
		configID: manifest.Config.Digest.Encoded(),
		created:  config.Created,
		size:     size,
		diffIDs:  lo.Map(config.RootFS.DiffIDs, func(d digest.Digest, _ int) string { return d.String() }),
	}, nil
}

// mergeLayoutImages folds references sharing a config into a single record and
// links records through their layer chains.
func mergeLayoutImages(imgs []*layoutImage) []RawRecord {
	var order []string
	byID := make(map[string]*RawRecord)
	var chains []layerChain

	for _, img := range imgs {
		if raw, ok := byID[img.configID]; ok {
			raw.RepoTags = append(raw.RepoTags, img.ref)
			continue
		}

		// created is optional in image configs
		createdAt := time.Unix(0, 0).UTC()
		if img.created != nil {
			createdAt = *img.created
		}

		byID[img.configID] = &RawRecord{
			ID:       img.configID,
			RepoTags: []string{img.ref},
			Created:  createdAt.Format(time.RFC3339Nano),
			Size:     json.Number(strconv.FormatInt(img.size, 10)),
		}
		order = append(order, img.configID)
		chains = append(chains, layerChain{ID: img.configID, Created: createdAt, DiffIDs: img.diffIDs})
	}

	parents := deriveParents(chains)
	return lo.Map(order, func(id string, _ int) RawRecord {
		raw := *byID[id]
		raw.Parent = parents[id]
		return raw
	})
}
