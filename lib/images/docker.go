package images

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/onkernel/imagetree/lib/logger"
)

// DockerSource lists images from a docker daemon, including intermediate
// images so that parent links survive.
type DockerSource struct {
	client      *client.Client
	concurrency int
}

// NewDockerSource connects to the daemon configured by the DOCKER_* environment.
// A non-empty host overrides DOCKER_HOST. Images are inspected with at most
// concurrency parallel requests.
func NewDockerSource(host string, concurrency int) (*DockerSource, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &DockerSource{client: cli, concurrency: concurrency}, nil
}

func (s *DockerSource) Name() string {
	return SourceDocker
}

// ListRaw lists every image, then inspects each one for its creation time:
// the list endpoint reports whole seconds only.
func (s *DockerSource) ListRaw(ctx context.Context) ([]RawRecord, error) {
	log := logger.FromContext(ctx)

	summaries, err := s.client.ImageList(ctx, image.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list docker images: %w", err)
	}

	raws := lo.Map(summaries, func(sm image.Summary, _ int) RawRecord {
		return RawRecord{
			ID:       sm.ID,
			Parent:   sm.ParentID,
			RepoTags: sm.RepoTags,
			Created:  time.Unix(sm.Created, 0).UTC().Format(time.RFC3339Nano),
			Size:     json.Number(strconv.FormatInt(sm.Size, 10)),
		}
	})

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.concurrency)
	for i := range raws {
		grp.Go(func() error {
			inspect, err := s.client.ImageInspect(gctx, raws[i].ID)
			if err != nil {
				// removed since listing, or an old daemon
				log.DebugContext(gctx, "keeping listed creation time", "id", raws[i].ID, "error", err)
				return nil
			}
			if inspect.Created != "" {
				raws[i].Created = inspect.Created
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return raws, nil
}

// Close releases the daemon connection.
func (s *DockerSource) Close() error {
	return s.client.Close()
}
