package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/onkernel/imagetree/cmd/imagetree/config"
	"github.com/onkernel/imagetree/lib/forest"
	"github.com/onkernel/imagetree/lib/images"
	"github.com/onkernel/imagetree/lib/logger"
	"github.com/onkernel/imagetree/lib/render"
)

var (
	errExclusiveModes = errors.New("--roots, --leafs and --always-indent cannot be combined")
	errFileWithDocker = errors.New("--file cannot be used with the docker source")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCommand(os.Stdout).Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:                   "imagetree",
		Usage:                  "Show local container images as a tree of parent and child images",
		ArgsUsage:              "[image id or tag...]",
		UseShortOptionHandling: true,
		Writer:                 out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "roots", Aliases: []string{"r"}, Usage: "list only images without a local parent"},
			&cli.BoolFlag{Name: "leafs", Aliases: []string{"l"}, Usage: "list only images without children"},
			&cli.BoolFlag{Name: "always-indent", Aliases: []string{"I"}, Usage: "print the full tree even for a single requested image"},
			&cli.BoolFlag{Name: "no-trunc", Aliases: []string{"N"}, Usage: "do not truncate image ids"},
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "image source: docker, snapshot, oci or archive"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "snapshot or archive file (- reads a snapshot from stdin)"},
			&cli.StringFlag{Name: "layout", Usage: "OCI layout directory or name under DATA_DIR/layouts"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output to stderr"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, out)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	opts, err := renderOptions(cmd)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	app, cleanup, err := initializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx = logger.AddToContext(ctx, app.Logger)

	records, err := app.ImageManager.ListImages(ctx)
	if err != nil {
		return err
	}

	f := forest.Build(records)
	if names := cmd.Args().Slice(); len(names) > 0 {
		var unmatched []string
		f, unmatched = forest.FilterByNames(f, names)
		for _, name := range unmatched {
			app.Logger.WarnContext(ctx, "no image matches name", "name", name)
		}
	}

	w := bufio.NewWriter(out)
	for line := range render.View(f, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func renderOptions(cmd *cli.Command) (render.Options, error) {
	opts := render.Options{
		AlwaysIndent: cmd.Bool("always-indent"),
		NoTrunc:      cmd.Bool("no-trunc"),
		Targets:      cmd.NArg(),
	}

	set := 0
	for _, name := range []string{"roots", "leafs", "always-indent"} {
		if cmd.Bool(name) {
			set++
		}
	}
	if set > 1 {
		return opts, errExclusiveModes
	}

	switch {
	case cmd.Bool("roots"):
		opts.Mode = render.ModeRoots
	case cmd.Bool("leafs"):
		opts.Mode = render.ModeLeafs
	}
	return opts, nil
}

// applyFlags lets command line flags override the environment configuration.
// A file given without a source selects the snapshot source in place of the
// docker daemon.
func applyFlags(cfg *config.Config, cmd *cli.Command) error {
	source := cmd.String("source")
	if source != "" {
		cfg.Source = source
	}
	if f := cmd.String("file"); f != "" {
		switch cfg.Source {
		case images.SourceArchive:
			cfg.ArchivePath = f
		case images.SourceDocker:
			if source != "" {
				return errFileWithDocker
			}
			cfg.Source = images.SourceSnapshot
			cfg.SnapshotPath = f
		default:
			cfg.SnapshotPath = f
		}
	}
	if l := cmd.String("layout"); l != "" {
		cfg.LayoutPath = l
	}
	if cmd.Bool("verbose") {
		cfg.LogLevel = "debug"
	}
	return nil
}
