package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routeviz/bgpmap/pkg/pipeline"
)

// buildCommand creates the build command for converting topology definitions.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		withLayout bool
		seed       uint64
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "build [topology.toml]",
		Short: "Build interchange JSON from a topology definition",
		Long: `Build interchange JSON from a topology definition.

The build command parses a TOML topology definition, validates it, and writes
the topology in the JSON interchange format understood by 'render', 'view',
and the HTTP API.

With --layout, node positions are computed and embedded in the output, so the
file opens with a ready arrangement instead of a fresh layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], buildParams{
				output:     output,
				noCache:    noCache,
				withLayout: withLayout,
				seed:       seed,
				iterations: iterations,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .json extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&withLayout, "layout", false, "embed computed node positions")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "layout seed (default: fixed)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "force-simulation rounds")

	return cmd
}

type buildParams struct {
	output     string
	noCache    bool
	withLayout bool
	seed       uint64
	iterations int
}

// runBuild parses the definition and writes interchange JSON.
func (c *CLI) runBuild(ctx context.Context, input string, params buildParams) error {
	runner, err := c.newRunner(params.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Source:     input,
		Formats:    []string{pipeline.FormatJSON},
		Seed:       params.seed,
		Iterations: params.iterations,
		Logger:     c.Logger,
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("Build failed")
		return err
	}
	prog.done(fmt.Sprintf("Built %d routers, %d routes", result.Stats.RouterCount, result.Stats.EdgeCount))

	doc := result.Artifacts[pipeline.FormatJSON]
	if !params.withLayout {
		// Strip the computed positions: re-export without them.
		stripped, err := runner.Render(ctx, result.Topology, result.Expansion, nil, pipeline.Options{
			Formats: []string{pipeline.FormatJSON},
			Logger:  c.Logger,
		})
		if err != nil {
			return fmt.Errorf("export topology: %w", err)
		}
		doc = stripped[pipeline.FormatJSON]
	}

	out := params.output
	if out == "" {
		out = replaceExt(input, ".json")
	}
	if err := os.WriteFile(out, doc, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Topology written")
	printFile(out)
	printStats(result.Stats.RouterCount+result.Stats.InterfaceCount, result.Stats.EdgeCount, result.CacheInfo.ParseHit)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, out))
	return nil
}

// replaceExt swaps the file extension of path.
func replaceExt(path, ext string) string {
	if i := strings.LastIndex(path, "."); i > 0 {
		return path[:i] + ext
	}
	return path + ext
}
