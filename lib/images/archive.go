package images

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/samber/lo"

	"github.com/onkernel/imagetree/lib/logger"
)

// archiveSource lists the images contained in a `docker save` tarball.
type archiveSource struct {
	path string
}

// NewArchiveSource creates a Source over the docker-save archive at path.
func NewArchiveSource(path string) Source {
	return &archiveSource{path: path}
}

func (s *archiveSource) Name() string {
	return SourceArchive
}

func (s *archiveSource) opener() tarball.Opener {
	return func() (io.ReadCloser, error) {
		return os.Open(s.path)
	}
}

func (s *archiveSource) ListRaw(ctx context.Context) ([]RawRecord, error) {
	log := logger.FromContext(ctx)

	manifest, err := tarball.LoadManifest(s.opener())
	if err != nil {
		return nil, fmt.Errorf("load archive manifest: %w", err)
	}

	contents, err := s.scan(ctx, manifest)
	if err != nil {
		return nil, err
	}

	var order []string
	byID := make(map[string]*RawRecord)
	var chains []layerChain

	for _, desc := range manifest {
		cfgBytes, ok := contents.configs[path.Clean(desc.Config)]
		if !ok {
			log.WarnContext(ctx, "skipping archive entry without config", "config", desc.Config)
			continue
		}

		cfg, err := v1.ParseConfigFile(bytes.NewReader(cfgBytes))
		if err != nil {
			log.WarnContext(ctx, "skipping archive entry with unreadable config", "config", desc.Config, "error", err)
			continue
		}
		h, _, err := v1.SHA256(bytes.NewReader(cfgBytes))
		if err != nil {
			return nil, fmt.Errorf("hash config %s: %w", desc.Config, err)
		}

		tags := lo.Filter(desc.RepoTags, func(t string, _ int) bool {
			if _, err := name.NewTag(t); err != nil {
				log.DebugContext(ctx, "ignoring invalid tag", "tag", t, "error", err)
				return false
			}
			return true
		})

		if raw, ok := byID[h.Hex]; ok {
			raw.RepoTags = append(raw.RepoTags, tags...)
			continue
		}

		size := int64(len(cfgBytes))
		for _, l := range desc.Layers {
			size += contents.layerSizes[path.Clean(l)]
		}

		byID[h.Hex] = &RawRecord{
			ID:       h.Hex,
			RepoTags: tags,
			Created:  cfg.Created.Time.Format(time.RFC3339Nano),
			Size:     json.Number(strconv.FormatInt(size, 10)),
		}
		order = append(order, h.Hex)
		chains = append(chains, layerChain{
			ID:      h.Hex,
			Created: cfg.Created.Time,
			DiffIDs: lo.Map(cfg.RootFS.DiffIDs, func(d v1.Hash, _ int) string { return d.String() }),
		})
	}

	parents := deriveParents(chains)
	return lo.Map(order, func(id string, _ int) RawRecord {
		raw := *byID[id]
		raw.Parent = parents[id]
		return raw
	}), nil
}

type archiveContents struct {
	configs    map[string][]byte
	layerSizes map[string]int64
}

// scan reads the archive once, keeping config blobs in memory and recording
// layer sizes from the tar headers.
func (s *archiveSource) scan(ctx context.Context, manifest tarball.Manifest) (*archiveContents, error) {
	configs := make(map[string]bool)
	layers := make(map[string]bool)
	for _, desc := range manifest {
		configs[path.Clean(desc.Config)] = true
		for _, l := range desc.Layers {
			layers[path.Clean(l)] = true
		}
	}

	f, err := s.opener()()
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	contents := &archiveContents{
		configs:    make(map[string][]byte),
		layerSizes: make(map[string]int64),
	}

	tr := tar.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		entry := path.Clean(hdr.Name)
		switch {
		case configs[entry]:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read config %s: %w", entry, err)
			}
			contents.configs[entry] = data
		case layers[entry]:
			contents.layerSizes[entry] = hdr.Size
		}
	}

	return contents, nil
}
