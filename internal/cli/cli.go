// Package cli implements the holopanel command-line interface.
//
// The commands load TOML panel documents, lay them out on a headless scene
// and inspect the result:
//   - layout: print each node's resolved box
//   - render: write JSON, DOT, SVG, PNG or text artifacts
//   - preview: drive the panel interactively in the terminal
//   - serve: expose a live panel over HTTP
//   - cache: manage the artifact cache
//   - config: print the effective configuration
//
// All commands accept --verbose (-v) for debug logging and --config to load
// a configuration file. The logger travels in the command context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/pkg/buildinfo"
	"github.com/matzehuels/holopanel/pkg/cache"
	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/pipeline"
)

// appName names the cache directory.
const appName = "holopanel"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
	out        io.Writer
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "holopanel",
		Short:        "Holopanel lays out and inspects in-game UI panels",
		Long:         `Holopanel is a headless layout engine for anchored, layered UI panels. It resolves panel documents into positioned primitives, routes pointer input, and renders the result for inspection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (TOML)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or returns defaults when it is unset or the
// file does not exist.
func (c *CLI) loadConfig(ctx context.Context) (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		loggerFromContext(ctx).Warn("Config file not found, using defaults", "path", c.configPath)
		return config.Default(), nil
	}
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(newCache(ctx, noCache), keyer, loggerFromContext(ctx))
}

func newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		loggerFromContext(ctx).Warn("Cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/holopanel/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma-separated format list, defaulting to svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
