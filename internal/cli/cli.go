// Package cli implements the sankeyflow command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/config"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sankeyflow"

	// envRedisURL selects the Redis cache when set.
	envRedisURL = "SANKEYFLOW_REDIS_URL"
)

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and server events are logged through observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sankeyflow turns flow tables into interactive Sankey diagrams",
		Long: `Sankeyflow assembles Sankey diagrams from tabular flow records (source,
target, value and an optional time column). Filters and metrics shape the
diagram, a time column turns it into an animated timeline, and the result
is rendered as interactive HTML, a JSON document or Graphviz output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheSettings selects the cache backend for a runner.
type cacheSettings struct {
	disabled bool
	redisURL string
	prefix   string
}

// cacheSettingsFor combines the --no-cache and --redis flags with the
// config file and the environment. Flags win over the file, the file wins
// over the environment.
func cacheSettingsFor(noCache bool, redisURL string, cfg *config.Config) cacheSettings {
	s := cacheSettings{disabled: noCache, redisURL: os.Getenv(envRedisURL), prefix: config.DefaultPrefix}
	if cfg != nil {
		switch cfg.Cache.Backend {
		case config.BackendNone:
			s.disabled = true
		case config.BackendRedis:
			s.redisURL = cfg.Cache.RedisURL
		case config.BackendFile:
			s.redisURL = ""
		}
		s.prefix = cfg.CachePrefix()
	}
	if redisURL != "" {
		s.redisURL = redisURL
	}
	return s
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, s cacheSettings) (*pipeline.Runner, error) {
	if s.disabled {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	if s.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, s.redisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "prefix", s.prefix)
		return pipeline.NewRunner(rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), s.prefix), c.Logger), nil
	}
	fc, err := newFileCache()
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "error", err)
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

func newFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sankeyflow/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty input yields nil so the pipeline default applies.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
