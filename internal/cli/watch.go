package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importdeps/pkg/errors"
	"github.com/matzehuels/importdeps/pkg/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    sourceFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch PATH",
		Short: "Re-analyze a Python package whenever its sources change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := args[0]
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", root)
			}

			s, err := c.newSession(ctx, cmd, root, &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := watch.New(root, watch.WithDebounce(debounce), watch.WithLogger(loggerFromContext(ctx)))
			if err != nil {
				return err
			}
			defer w.Close()

			run := func(ctx context.Context) error {
				res, err := s.runner.Analyze(ctx, s.opts)
				if err != nil {
					printError("%s", errors.UserMessage(err))
					return nil
				}
				printStats(res.Stats.ModuleCount, res.Stats.EdgeCount, res.Stats.CycleEdgeCount, false)
				for _, e := range res.Cycles.Sorted() {
					printWarning("%s -> %s", e.From, e.To)
				}
				return nil
			}

			printInfo("Watching %s", root)
			run(ctx)
			return w.Run(ctx, run)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-analyzing")
	return cmd
}
