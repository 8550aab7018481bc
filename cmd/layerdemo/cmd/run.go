package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/layerkit/pkg/render"
	"github.com/go-drift/layerkit/pkg/scene"
	"github.com/go-drift/layerkit/pkg/surface"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var pngDir string

	cmd := &cobra.Command{
		Use:   "run <scene.yaml>",
		Short: "Replay a scene and print the surface event trace",
		Example: `  # Print what every frame did to the surface
  layerdemo run storm.yaml

  # Also write frame-000.png, frame-001.png, ... to ./out
  layerdemo run --png-dir out storm.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			return replay(cmd.OutOrStdout(), s, opts, pngDir)
		},
	}

	cmd.Flags().StringVar(&pngDir, "png-dir", "", "write a PNG of the surface after every frame into this directory")

	return cmd
}

func replay(out io.Writer, s *scene.Scene, opts *globalOptions, pngDir string) (err error) {
	handler, restore := install(opts.logger, opts.resolved.Verbose)
	defer restore()

	if pngDir != "" {
		if err := os.MkdirAll(pngDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", pngDir, err)
		}
	}

	m := surface.NewMap()
	off := m.Observe(func(ev surface.Event) {
		fmt.Fprintf(out, "  %s\n", ev)
	})
	defer off()

	player := scene.NewPlayer(m)
	defer func() {
		fmt.Fprintln(out, "teardown")
		player.Close()
		if n := handler.total(); err == nil && n > 0 {
			err = fmt.Errorf("%d layer errors reported while replaying %s", n, sceneLabel(s))
		}
	}()

	for i, frame := range s.Frames {
		fmt.Fprintf(out, "frame %d", i)
		if frame.Name != "" {
			fmt.Fprintf(out, " (%s)", frame.Name)
		}
		fmt.Fprintln(out)

		player.Show(frame)
		opts.logger.Debug("frame shown",
			zap.Int("frame", i),
			zap.Int("nodes", frame.Count()),
			zap.Int("layers", len(m.Layers())),
		)

		if pngDir != "" {
			path := filepath.Join(pngDir, fmt.Sprintf("frame-%03d.png", i))
			if err := writeFrame(path, m, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFrame(path string, m *surface.Map, opts *globalOptions) error {
	background, err := render.ParseColor(opts.resolved.Background)
	if err != nil {
		return err
	}
	img, err := render.Render(m, render.Options{
		Width:      opts.resolved.Width,
		Height:     opts.resolved.Height,
		Background: background,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func sceneLabel(s *scene.Scene) string {
	if s.Name != "" {
		return s.Name
	}
	return "scene"
}
