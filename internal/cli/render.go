package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importdeps/pkg/cache"
	"github.com/matzehuels/importdeps/pkg/dag"
	"github.com/matzehuels/importdeps/pkg/dag/transform"
	depsio "github.com/matzehuels/importdeps/pkg/io"
	"github.com/matzehuels/importdeps/pkg/pipeline"
	"github.com/matzehuels/importdeps/pkg/render/nodelink"
)

// renderOpts holds the flags shared by graph and render.
type renderOpts struct {
	output   string // output file, default imports.<format>
	format   string // svg, png or dot
	noCycles bool   // disable cycle highlighting
}

func (o *renderOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: imports.<format>)")
	cmd.Flags().StringVarP(&o.format, "format", "f", string(nodelink.FormatSVG), "output format: svg, png or dot")
	cmd.Flags().BoolVar(&o.noCycles, "no-cycles", false, "do not highlight import cycles")
}

func (o *renderOpts) resolve() (pipeline.RenderOptions, string, error) {
	format, err := nodelink.ParseFormat(o.format)
	if err != nil {
		return pipeline.RenderOptions{}, "", err
	}
	output := o.output
	if output == "" {
		output = "imports." + string(format)
	}
	return pipeline.RenderOptions{Format: format, HighlightCycles: !o.noCycles}, output, nil
}

// graphCommand creates the graph command, which analyzes and renders in one step.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags sourceFlags
		opts  renderOpts
	)

	cmd := &cobra.Command{
		Use:   "graph PATH",
		Short: "Render the import graph of a Python package",
		Long: `Render the import graph of a Python file or package with Graphviz.

Modules are grouped into one cluster per package. Edges on import cycles are
drawn in red unless --no-cycles is given.`,
		Example: `  importdeps graph src/
  importdeps graph -f png -o deps.png src/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, output, err := opts.resolve()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := c.newSession(ctx, cmd, args[0], &flags)
			if err != nil {
				return err
			}
			defer s.Close()

			spinner := newSpinnerWithContext(ctx, "Analyzing imports...")
			spinner.Start()
			res, err := s.runner.Analyze(ctx, s.opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			return writeRender(ctx, s.runner, res.Graph, res.Cycles, ropts, output)
		},
	}

	flags.register(cmd)
	opts.register(cmd)
	return cmd
}

// renderCommand creates the render command, which renders a results file
// written by --json.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts    renderOpts
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render RESULTS.json",
		Short: "Render a JSON results file",
		Long: `Render the import graph stored in a JSON results file, as printed by
"importdeps --json".`,
		Example: `  importdeps --json src/ > imports.json
  importdeps render -f svg imports.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, output, err := opts.resolve()
			if err != nil {
				return err
			}
			g, err := depsio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			store := cache.NewNullCache()
			if !noCache {
				store = newFileCache(logger)
			}
			defer store.Close()
			runner := pipeline.NewRunner(store, nil, logger)

			return writeRender(cmd.Context(), runner, g, transform.DetectCycles(g), ropts, output)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func writeRender(ctx context.Context, runner *pipeline.Runner, g *dag.Graph, cycles transform.EdgeSet, opts pipeline.RenderOptions, output string) error {
	prog := newProgress(loggerFromContext(ctx))

	data, cached, err := runner.Render(ctx, g, cycles, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	prog.done("Rendered " + string(opts.Format))

	printSuccess("Rendered import graph")
	printStats(len(g.Modules()), g.EdgeCount(), len(cycles), cached)
	printFile(output)
	return nil
}
