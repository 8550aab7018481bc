package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/layerkit/pkg/scene"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene.yaml>...",
		Short: "Check scene files without replaying them",
		Long: `Validate parses each scene file and reports every problem found:
unknown fields, unknown kinds, duplicate sibling ids, malformed geometry,
and versions outside the supported major line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				s, err := scene.Load(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					continue
				}
				nodes := 0
				for _, frame := range s.Frames {
					nodes += frame.Count()
				}
				opts.logger.Debug("scene valid", zap.String("path", path), zap.String("version", s.EffectiveVersion()))
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d frames, %d nodes)\n", path, s.EffectiveVersion(), len(s.Frames), nodes)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scene files are invalid", failed, len(args))
			}
			return nil
		},
	}
}
