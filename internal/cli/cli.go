package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/udgraph/pkg/buildinfo"
	"github.com/matzehuels/udgraph/pkg/cache"
	"github.com/matzehuels/udgraph/pkg/config"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
	"github.com/matzehuels/udgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "udgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        config.Config
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "udgraph analyzes and rewrites CoNLL-U dependency graphs",
		Long: `udgraph reads treebanks in CoNLL-U format and works on the sentence graphs:
it repairs cycles in basic trees, collapses empty nodes of enhanced graphs into
composite relations, reports corpus statistics and renders single sentences.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/udgraph/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	root.AddCommand(c.fixCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file into c.cfg.
func (c *CLI) loadConfig() error {
	cfg, unknown, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, k := range unknown {
		c.Logger.Warn("unknown config key", "key", k, "file", cfg.Path)
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "file", cfg.Path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is logged and replaced by a NullCache.
func (c *CLI) newRunner(ctx context.Context, keyer cache.Keyer) *pipeline.Runner {
	ch := c.openCache(ctx)
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	if ttl, err := c.cfg.CacheTTL(); err == nil {
		r.TTL = ttl
	}
	return r
}

func (c *CLI) openCache(ctx context.Context) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// pipelineOptions returns the pipeline options set by the config file.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		FixCycles:    c.cfg.Pipeline.FixCycles,
		Collapse:     c.cfg.Pipeline.CollapseEmpty,
		Separator:    c.cfg.Collapse.Separator,
		KeepEmptyIDs: c.cfg.Collapse.KeepEmptyIDs,
		Workers:      c.cfg.Pipeline.Workers,
		Logger:       c.Logger,
	}
}

// =============================================================================
// Input / Output
// =============================================================================

// readInput reads the treebank named by args[0], or stdin when no file (or
// "-") is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, uerr.Wrap(uerr.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if errors.Is(err, fs.ErrNotExist) {
		return nil, uerr.Wrap(uerr.ErrCodeFileNotFound, err, "input file %s", args[0])
	}
	if err != nil {
		return nil, uerr.Wrap(uerr.ErrCodeInvalidInput, err, "read %s", args[0])
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return uerr.Wrap(uerr.ErrCodeInternal, err, "write %s", path)
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}
