package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/config"
	"github.com/matzehuels/sankeyflow/pkg/filter"
	"github.com/matzehuels/sankeyflow/pkg/metric"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/timeline"
)

// diagramFlags are the assembly flags shared by render, frames, browse and
// serve. A flag only overrides the config file when it is set explicitly.
type diagramFlags struct {
	config string

	source  string
	target  string
	value   string
	timeCol string

	id        string
	title     string
	histogram bool
	timeline  bool
	interval  time.Duration
	easing    string
	filters   []string

	nodeMetric      string
	edgeMetric      string
	nodeColorMetric string
	edgeColorMetric string

	noCache  bool
	redisURL string
	refresh  bool
}

func (f *diagramFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (default: ./"+config.FileName+" when present)")

	fl.StringVar(&f.source, "source", pipeline.DefaultSource, "source column")
	fl.StringVar(&f.target, "target", pipeline.DefaultTarget, "target column")
	fl.StringVar(&f.value, "value", pipeline.DefaultValue, "value column")
	fl.StringVar(&f.timeCol, "time", "", "time column; enables the timeline")

	fl.StringVar(&f.id, "id", "", "diagram ID (default: random)")
	fl.StringVar(&f.title, "title", "", "diagram title")
	fl.BoolVar(&f.histogram, "histogram", false, "color edges by value")
	fl.BoolVar(&f.timeline, "timeline", true, "split the diagram into frames by the time column")
	fl.DurationVar(&f.interval, "interval", timeline.DefaultInterval, "playback interval per frame")
	fl.StringVar(&f.easing, "easing", timeline.DefaultEasing, "transition easing: "+strings.Join(timeline.Easings, ", "))
	fl.StringArrayVar(&f.filters, "filter", nil, "filter expression [name:]column<op>value (repeatable)")

	fl.StringVar(&f.nodeMetric, "node-metric", "", "node size metric: "+strings.Join(metric.NodeNames(), ", "))
	fl.StringVar(&f.edgeMetric, "edge-metric", "", "edge value metric: "+strings.Join(metric.EdgeNames(), ", ")+", "+metric.ColumnPrefix+"<name>")
	fl.StringVar(&f.nodeColorMetric, "node-color-metric", "", "metric that colors nodes")
	fl.StringVar(&f.edgeColorMetric, "edge-color-metric", "", "metric that colors edges")

	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.StringVar(&f.redisURL, "redis", "", "Redis URL for a shared cache (or $"+envRedisURL+")")
	fl.BoolVar(&f.refresh, "refresh", false, "reassemble even when the document is cached")

	_ = cmd.RegisterFlagCompletionFunc("easing", fixedCompletions(timeline.Easings))
	_ = cmd.RegisterFlagCompletionFunc("node-metric", fixedCompletions(metric.NodeNames()))
	_ = cmd.RegisterFlagCompletionFunc("node-color-metric", fixedCompletions(metric.NodeNames()))
	_ = cmd.RegisterFlagCompletionFunc("edge-metric", fixedCompletions(metric.EdgeNames()))
	_ = cmd.RegisterFlagCompletionFunc("edge-color-metric", fixedCompletions(metric.EdgeNames()))
}

func fixedCompletions(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// loadConfig reads the --config file, or sankeyflow.toml in the working
// directory. It returns nil when neither exists.
func (f *diagramFlags) loadConfig() (*config.Config, error) {
	path := f.config
	if path == "" {
		path = config.Find(".")
	}
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// options merges the config file, the input argument and explicitly set
// flags into pipeline options.
func (f *diagramFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, *config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	var opts pipeline.Options
	if cfg != nil {
		if opts, err = cfg.Options(); err != nil {
			return pipeline.Options{}, nil, err
		}
	}
	if len(args) > 0 {
		opts.Input = args[0]
	}
	if opts.Input == "" {
		return pipeline.Options{}, nil, fmt.Errorf("no input: pass a file or set input in %s", config.FileName)
	}

	fl := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	setString("source", &opts.Source, f.source)
	setString("target", &opts.Target, f.target)
	setString("value", &opts.Value, f.value)
	setString("time", &opts.Time, f.timeCol)
	setString("id", &opts.ID, f.id)
	setString("title", &opts.Title, f.title)
	setString("easing", &opts.Easing, f.easing)
	setString("node-metric", &opts.NodeMetric, f.nodeMetric)
	setString("edge-metric", &opts.EdgeMetric, f.edgeMetric)
	setString("node-color-metric", &opts.NodeColorMetric, f.nodeColorMetric)
	setString("edge-color-metric", &opts.EdgeColorMetric, f.edgeColorMetric)

	if fl.Changed("histogram") {
		opts.Histogram = f.histogram
	}
	if fl.Changed("timeline") {
		opts.NoTimeline = !f.timeline
	}
	if fl.Changed("interval") {
		opts.IntervalMS = f.interval.Milliseconds()
	}
	for _, expr := range f.filters {
		spec, err := filter.ParseSpec(expr)
		if err != nil {
			return pipeline.Options{}, nil, err
		}
		opts.Filters = append(opts.Filters, spec)
	}
	opts.Refresh = f.refresh

	return opts, cfg, nil
}

// cache returns the cache settings for these flags and cfg.
func (f *diagramFlags) cache(cfg *config.Config) cacheSettings {
	return cacheSettingsFor(f.noCache, f.redisURL, cfg)
}
