package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importdeps/pkg/errors"
	depsio "github.com/matzehuels/importdeps/pkg/io"
	"github.com/matzehuels/importdeps/pkg/pipeline"
	"github.com/matzehuels/importdeps/pkg/render/nodelink"
)

// analyzeFlags holds flags for the root analyze command.
type analyzeFlags struct {
	sourceFlags
	json   bool
	dot    bool
	sort   bool
	check  bool
	output string
}

// analyzeCommand creates the root command, which analyzes a file or package.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "importdeps PATH",
		Short: "importdeps lists the imports between modules of a Python project",
		Long: `importdeps finds which modules of a Python file or package import which.

For a file, the modules imported by that file are listed. For a directory,
every module below it is listed with its imports. Only imports that resolve
to modules inside the analyzed tree are reported.`,
		Example: `  # List the imports of every module below src/
  importdeps src/

  # Fail when src/ has import cycles
  importdeps --check src/

  # Modules in dependency order
  importdeps --sort src/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&flags.dot, "dot", false, "print results as a Graphviz DOT graph")
	cmd.Flags().BoolVar(&flags.sort, "sort", false, "print modules in dependency order")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit with status 1 if import cycles exist")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write output to file instead of stdout")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, flags analyzeFlags) error {
	if countSet(flags.json, flags.dot, flags.sort) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--json, --dot and --sort are mutually exclusive")
	}

	ctx := cmd.Context()
	s, err := c.newSession(ctx, cmd, path, &flags.sourceFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.runner.Analyze(ctx, s.opts)
	if err != nil {
		return err
	}

	if flags.check {
		return reportCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
	}

	out := cmd.OutOrStdout()
	if flags.output != "" {
		f, err := os.Create(flags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	switch {
	case flags.json:
		err = depsio.WriteJSON(w, res.Results)
	case flags.dot:
		_, err = io.WriteString(w, nodelink.ToDOT(res.Graph, res.Cycles, nodelink.Options{HighlightCycles: true}))
	case flags.sort:
		err = depsio.WriteOrder(w, res.Order)
	default:
		err = depsio.WriteText(w, res.Results, res.Single || len(res.Results) == 1)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if flags.output != "" {
		printSuccess("Wrote %s", flags.output)
	}
	return nil
}

// reportCheck prints the cycle verdict. Found cycles go to errOut and yield
// ErrCheckFailed.
func reportCheck(out, errOut io.Writer, res *pipeline.Result) error {
	if len(res.Cycles) == 0 {
		fmt.Fprintln(out, "No circular dependencies found.")
		return nil
	}
	fmt.Fprintln(errOut, "Circular dependencies detected:")
	if err := depsio.WriteCycles(errOut, res.Cycles); err != nil {
		return err
	}
	return ErrCheckFailed
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
