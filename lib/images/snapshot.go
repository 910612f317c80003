package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ghodss/yaml"
	"github.com/onkernel/imagetree/lib/logger"
)

// StdinPath selects standard input as the snapshot file.
const StdinPath = "-"

// snapshotSource reads records saved from `docker inspect $(docker image ls -aq)`.
// The file may be JSON or YAML; both decode through the same json tags.
type snapshotSource struct {
	path  string
	stdin io.Reader
}

// NewSnapshotSource creates a Source backed by a snapshot file. When path is
// StdinPath the snapshot is read from stdin.
func NewSnapshotSource(path string, stdin io.Reader) Source {
	return &snapshotSource{path: path, stdin: stdin}
}

func (s *snapshotSource) Name() string {
	return SourceSnapshot
}

func (s *snapshotSource) ListRaw(ctx context.Context) ([]RawRecord, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(ctx, data)
}

func (s *snapshotSource) read() ([]byte, error) {
	if s.path == StdinPath {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, s.path)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot decodes the top-level array, then each element on its own so
// that one bad element does not discard the rest.
func decodeSnapshot(ctx context.Context, data []byte) ([]RawRecord, error) {
	log := logger.FromContext(ctx)

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(jsonData, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	raws := make([]RawRecord, 0, len(elems))
	for i, elem := range elems {
		var raw RawRecord
		if err := json.Unmarshal(elem, &raw); err != nil {
			log.WarnContext(ctx, "skipping undecodable snapshot entry", "index", i, "error", err)
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
