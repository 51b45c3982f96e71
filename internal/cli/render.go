package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routeviz/bgpmap/pkg/pipeline"
)

// renderCommand creates the render command for generating diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [topology.toml|topology.json]",
		Short: "Render a topology as SVG, PNG, DOT, or JSON",
		Long: `Render a topology as SVG, PNG, DOT, or JSON.

The render command runs the full pipeline: parse, validate, expand interfaces,
compute layout, and draw. Input may be a TOML definition or a JSON interchange
file, local or an http(s) URL; saved positions in interchange files are
honored.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "layout seed (default: fixed)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "force-simulation rounds")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with device information")

	return cmd
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Source = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := writeArtifacts(result.Artifacts, opts.Formats, input, output); err != nil {
		return err
	}
	printStats(result.Stats.RouterCount+result.Stats.InterfaceCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	if result.Stats.DroppedEdges > 0 {
		printWarning("%d route(s) reference interfaces that could not be resolved", result.Stats.DroppedEdges)
	}
	return nil
}

// writeArtifacts writes each rendered format next to the input file, or to the
// explicit output path when one format is requested.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, ".toml")
		base = strings.TrimSuffix(base, ".json")
	}

	printSuccess("Diagram written")
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base
		if len(formats) > 1 || output == "" {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
