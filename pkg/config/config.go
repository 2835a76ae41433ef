// Package config loads sankeyflow.toml files.
//
// A config file describes a diagram the same way the render flags do, so a
// repeatable diagram can be checked in next to its data:
//
//	input = "budget.csv"
//
//	[columns]
//	source = "from"
//	target = "to"
//	value  = "amount"
//	time   = "month"
//
//	[diagram]
//	title     = "Household budget"
//	histogram = true
//	interval  = "1.2s"
//	easing    = "linear"
//	filters   = ["value>10"]
//
//	[[diagram.filter]]
//	name   = "no-savings"
//	column = "to"
//	op     = "!="
//	value  = "Savings"
//
//	[output]
//	formats = ["html", "svg"]
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Relative input paths are resolved against the directory of the file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/filter"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// FileName is the config file looked up in the working directory.
const FileName = "sankeyflow.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultPrefix namespaces keys in a shared Redis database.
const DefaultPrefix = "sankeyflow:"

// Config is the decoded form of a sankeyflow.toml file.
type Config struct {
	Input   string  `toml:"input"`
	Columns Columns `toml:"columns"`
	Diagram Diagram `toml:"diagram"`
	Output  Output  `toml:"output"`
	Cache   Cache   `toml:"cache"`

	// dir is the directory of the loaded file.
	dir string
}

// Columns assigns the column roles.
type Columns struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
	Value  string `toml:"value"`
	Time   string `toml:"time"`
}

// Diagram holds the assembly settings.
type Diagram struct {
	ID              string        `toml:"id"`
	Title           string        `toml:"title"`
	Histogram       bool          `toml:"histogram"`
	Timeline        *bool         `toml:"timeline"`
	Interval        string        `toml:"interval"`
	Easing          string        `toml:"easing"`
	Filters         []string      `toml:"filters"`
	Filter          []filter.Spec `toml:"filter"`
	NodeMetric      string        `toml:"node_metric"`
	EdgeMetric      string        `toml:"edge_metric"`
	NodeColorMetric string        `toml:"node_color_metric"`
	EdgeColorMetric string        `toml:"edge_color_metric"`
}

// Output holds the render settings.
type Output struct {
	Formats  []string `toml:"formats"`
	Frame    int      `toml:"frame"`
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Scale    float64  `toml:"scale"`
	Detailed bool     `toml:"detailed"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Find returns the config file in dir, or "" when there is none.
func Find(dir string) string {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Parse decodes and validates TOML config data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cache backend and the interval syntax. Diagram
// settings are validated by the pipeline.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.interval(); err != nil {
		return err
	}
	return nil
}

func (c *Config) interval() (time.Duration, error) {
	if c.Diagram.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Diagram.Interval)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "interval %q", c.Diagram.Interval)
	}
	return d, nil
}

// Options converts the config to pipeline options. Filter expressions come
// before [[diagram.filter]] tables.
func (c *Config) Options() (pipeline.Options, error) {
	interval, err := c.interval()
	if err != nil {
		return pipeline.Options{}, err
	}

	filters := make([]filter.Spec, 0, len(c.Diagram.Filters)+len(c.Diagram.Filter))
	for _, expr := range c.Diagram.Filters {
		spec, err := filter.ParseSpec(expr)
		if err != nil {
			return pipeline.Options{}, err
		}
		filters = append(filters, spec)
	}
	filters = append(filters, c.Diagram.Filter...)

	opts := pipeline.Options{
		Input:           c.InputPath(),
		Source:          c.Columns.Source,
		Target:          c.Columns.Target,
		Value:           c.Columns.Value,
		Time:            c.Columns.Time,
		ID:              c.Diagram.ID,
		Title:           c.Diagram.Title,
		Histogram:       c.Diagram.Histogram,
		NoTimeline:      c.Diagram.Timeline != nil && !*c.Diagram.Timeline,
		IntervalMS:      interval.Milliseconds(),
		Easing:          c.Diagram.Easing,
		NodeMetric:      c.Diagram.NodeMetric,
		EdgeMetric:      c.Diagram.EdgeMetric,
		NodeColorMetric: c.Diagram.NodeColorMetric,
		EdgeColorMetric: c.Diagram.EdgeColorMetric,
		Formats:         c.Output.Formats,
		Frame:           c.Output.Frame,
		Width:           c.Output.Width,
		Height:          c.Output.Height,
		Scale:           c.Output.Scale,
		Detailed:        c.Output.Detailed,
	}
	if len(filters) > 0 {
		opts.Filters = filters
	}
	return opts, nil
}

// InputPath returns the input path resolved against the config directory.
func (c *Config) InputPath() string {
	if c.Input == "" || filepath.IsAbs(c.Input) || c.dir == "" {
		return c.Input
	}
	return filepath.Join(c.dir, c.Input)
}

// CachePrefix returns the Redis key prefix.
func (c *Config) CachePrefix() string {
	if c.Cache.Prefix == "" {
		return DefaultPrefix
	}
	return c.Cache.Prefix
}
