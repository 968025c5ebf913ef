package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/pkg/pipeline"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	output   string
	formats  string
	pointer  string
	anchors  bool
	detailed bool
	scale    float64
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for producing artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a panel document to JSON, DOT, SVG, PNG or text",
		Long: `Lay out a panel document on a headless scene and render it.

Formats:
  json  resolved boxes of every node
  dot   scene graph in Graphviz DOT
  svg   scene graph rendered by Graphviz
  png   raster image of the live display primitives
  txt   indented text tree

Artifacts are written next to each other as <output>/<name>.<format>.
Rendered artifacts are cached; --refresh re-renders and --no-cache skips
the cache entirely.`,
		Example: `  # SVG of the scene graph with anchor edges
  holopanel render menu.toml --anchors

  # PNG at half scale with the button under (0, 40) highlighted
  holopanel render menu.toml -f png --scale 0.5 --pointer 0,40

  # Every format into ./out
  holopanel render menu.toml -f json,dot,svg,png,txt -o out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output formats: json, dot, svg, png, txt (comma-separated, default svg)")
	cmd.Flags().StringVar(&flags.pointer, "pointer", "", "route a pointer at x,y before rendering")
	cmd.Flags().BoolVar(&flags.anchors, "anchors", false, "draw anchor edges in DOT and SVG")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include boxes in DOT and SVG labels")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG pixel scale")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, flags renderFlags) error {
	logger := loggerFromContext(ctx)

	data, err := readDocument(path)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return err
	}

	name := documentName(path)
	opts := pipeline.Options{
		Document: data,
		Name:     name,
		Config:   cfg,
		Formats:  parseFormats(flags.formats),
		Anchors:  flags.anchors,
		Detailed: flags.detailed,
		Scale:    flags.scale,
		Refresh:  flags.refresh,
		Logger:   logger,
	}
	if flags.pointer != "" {
		p, err := parsePoint(flags.pointer)
		if err != nil {
			return err
		}
		opts.Pointer = &p
	}

	runner := c.newRunner(ctx, flags.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	var spin *Spinner
	if isatty.IsTerminal(os.Stderr.Fd()) {
		spin = newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", name))
		spin.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	if err := os.MkdirAll(flags.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	printSuccess(c.out, "Rendered %s", name)
	for _, format := range opts.Formats {
		out := filepath.Join(flags.output, name+"."+format)
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(c.out, out)
	}
	printStats(c.out, result.Stats.NodeCount, result.Stats.Primitives, result.CacheInfo.RenderHit)

	if errs := result.Snapshot.Errors(); len(errs) > 0 {
		printWarning(c.out, "%d nodes could not be laid out", len(errs))
		for _, n := range errs {
			printDetail(c.out, "%s #%d: %s", n.Kind, n.ID, n.Err)
		}
		printNextStep(c.out, "Inspect", "holopanel layout "+path)
	}
	return nil
}
