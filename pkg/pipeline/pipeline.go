// Package pipeline provides the core diagram pipeline for sankeyflow.
//
// This package implements the complete load → assemble → render pipeline
// used by the CLI commands and the HTTP server. Centralizing it keeps the
// behavior of every entry point identical.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the flow table from a CSV or JSON file
//  2. Assemble: Apply filters and metrics, split the timeline and build the
//     serialized [graph.Document]
//  3. Render: Generate output in various formats (HTML, JSON, DOT, SVG, PNG, PDF)
//
// Documents and artifacts are cached by a [Runner].
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "flows.csv",
//	    Time:    "year",
//	    Filters: []filter.Spec{{Name: "big", Column: "value", Op: ">", Value: "15"}},
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/filter"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/metric"
	"github.com/matzehuels/sankeyflow/pkg/table"
	"github.com/matzehuels/sankeyflow/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Default column names.
const (
	DefaultSource = "source"
	DefaultTarget = "target"
	DefaultValue  = "value"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{FormatHTML, FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON and TOML serialization for config files.
type Options struct {
	// Input options
	Input string       `json:"input,omitempty" toml:"input"`
	Table *table.Table `json:"-" toml:"-"` // In-memory input; takes precedence over Input

	// Column roles
	Source string `json:"source,omitempty" toml:"source"`
	Target string `json:"target,omitempty" toml:"target"`
	Value  string `json:"value,omitempty" toml:"value"`
	Time   string `json:"time,omitempty" toml:"time"`

	// Assembly options
	ID              string        `json:"id,omitempty" toml:"id"` // Fixed diagram ID; random when empty
	Title           string        `json:"title,omitempty" toml:"title"`
	Histogram       bool          `json:"histogram,omitempty" toml:"histogram"`
	NoTimeline      bool          `json:"no_timeline,omitempty" toml:"no_timeline"` // Render only the static view (default: false = frames)
	IntervalMS      int64         `json:"interval_ms,omitempty" toml:"interval_ms"`
	Easing          string        `json:"easing,omitempty" toml:"easing"`
	Filters         []filter.Spec `json:"filters,omitempty" toml:"filters"`
	NodeMetric      string        `json:"node_metric,omitempty" toml:"node_metric"`
	EdgeMetric      string        `json:"edge_metric,omitempty" toml:"edge_metric"`
	NodeColorMetric string        `json:"node_color_metric,omitempty" toml:"node_color_metric"`
	EdgeColorMetric string        `json:"edge_color_metric,omitempty" toml:"edge_color_metric"`
	Refresh         bool          `json:"refresh,omitempty" toml:"-"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	Frame    int      `json:"frame,omitempty" toml:"frame"` // 1-based frame for static formats; 0 selects the static view
	Width    int      `json:"width,omitempty" toml:"width"`
	Height   int      `json:"height,omitempty" toml:"height"`
	Scale    float64  `json:"scale,omitempty" toml:"scale"`
	Detailed bool     `json:"detailed,omitempty" toml:"detailed"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the serialized diagram.
	Document graph.Document

	// DocumentHash is the content hash of the encoded document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows         int // Input rows; zero when the document came from cache
	NodeCount    int
	EdgeCount    int
	FrameCount   int
	TotalFlow    float64
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool // Whether the document came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMetrics checks that every named metric is known.
func ValidateMetrics(node, edge, nodeColor, edgeColor string) error {
	for _, name := range []string{node, nodeColor} {
		if name == "" {
			continue
		}
		if _, err := metric.LookupNode(name); err != nil {
			return err
		}
	}
	for _, name := range []string{edge, edgeColor} {
		if name == "" {
			continue
		}
		if _, err := metric.LookupEdge(name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAssemble(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAssemble checks the input, column, filter, metric and
// playback options and fills in their defaults.
func (o *Options) ValidateForAssemble() error {
	if o.Input == "" && o.Table == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "input is required")
	}
	o.SetAssembleDefaults()

	for _, f := range o.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if err := ValidateMetrics(o.NodeMetric, o.EdgeMetric, o.NodeColorMetric, o.EdgeColorMetric); err != nil {
		return err
	}
	if o.IntervalMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "interval must be positive, got %dms", o.IntervalMS)
	}
	return o.Playback().Validate()
}

// SetAssembleDefaults sets the default column names and logger.
func (o *Options) SetAssembleDefaults() {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	if o.Value == "" {
		o.Value = DefaultValue
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Frame < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame must be 0 (static) or a frame number, got %d", o.Frame)
	}
	if o.Scale < 0 || o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width, height and scale must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// Playback returns the timeline settings with defaults applied.
func (o *Options) Playback() timeline.Playback {
	return timeline.Playback{
		Interval: time.Duration(o.IntervalMS) * time.Millisecond,
		Easing:   o.Easing,
	}.WithDefaults()
}

// FrameIndex maps the 1-based Frame option to a document frame index.
func (o *Options) FrameIndex() int {
	if o.Frame == 0 {
		return graph.StaticFrame
	}
	return o.Frame - 1
}

// NeedsSnapshot reports whether any requested format renders a single
// snapshot through Graphviz.
func (o *Options) NeedsSnapshot() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
			return true
		}
	}
	return false
}

// DocumentKeyOpts returns cache key options for document assembly.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	filters := make([]string, len(o.Filters))
	for i, f := range o.Filters {
		filters[i] = f.String()
	}
	p := o.Playback()
	return cache.DocumentKeyOpts{
		ID:              o.ID,
		Source:          o.Source,
		Target:          o.Target,
		Value:           o.Value,
		Time:            o.Time,
		Title:           o.Title,
		Histogram:       o.Histogram,
		Timeline:        !o.NoTimeline,
		IntervalMS:      p.Interval.Milliseconds(),
		Easing:          p.Easing,
		Filters:         filters,
		NodeMetric:      o.NodeMetric,
		EdgeMetric:      o.EdgeMetric,
		NodeColorMetric: o.NodeColorMetric,
		EdgeColorMetric: o.EdgeColorMetric,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Frame:    o.Frame,
		Width:    o.Width,
		Height:   o.Height,
		Scale:    o.Scale,
		Detailed: o.Detailed,
	}
}
