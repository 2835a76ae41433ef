package pipeline

import (
	"testing"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/filter"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/timeline"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"html", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"HTML", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"html", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	err := ValidateFormats([]string{"svg", "invalid"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Invalid format should fail with INVALID_CONFIG, got %v", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateMetrics(t *testing.T) {
	tests := []struct {
		name               string
		node, edge, nc, ec string
		wantErr            bool
	}{
		{"none", "", "", "", "", false},
		{"built-ins", "throughput", "share", "degree", "count", false},
		{"column edge metric", "", "column:cost", "", "", false},
		{"unknown node", "bogus", "", "", "", true},
		{"unknown edge color", "", "", "", "bogus", true},
		{"empty column", "", "column:", "", "", true},
	}
	for _, tt := range tests {
		err := ValidateMetrics(tt.node, tt.edge, tt.nc, tt.ec)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidMetric) {
			t.Errorf("%s: error code = %s, want INVALID_METRIC", tt.name, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "flows.csv"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Source != DefaultSource || opts.Target != DefaultTarget || opts.Value != DefaultValue {
		t.Errorf("column defaults = %s/%s/%s", opts.Source, opts.Target, opts.Value)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatHTML {
		t.Errorf("Formats should default to [html], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	if p := opts.Playback(); p != timeline.DefaultPlayback() {
		t.Errorf("Playback() = %+v, want defaults", p)
	}
}

func TestOptionsValidateForAssemble(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidConfig},
		{"bad filter", Options{Input: "x.csv", Filters: []filter.Spec{{Name: "f", Column: "value", Op: "~", Value: "1"}}}, errors.ErrCodeInvalidFilter},
		{"bad metric", Options{Input: "x.csv", NodeMetric: "nope"}, errors.ErrCodeInvalidMetric},
		{"negative interval", Options{Input: "x.csv", IntervalMS: -5}, errors.ErrCodeInvalidConfig},
		{"bad easing", Options{Input: "x.csv", Easing: "wobble"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		err := tt.opts.ValidateForAssemble()
		if !errors.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want %s", tt.name, err, tt.code)
		}
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	opts := Options{Frame: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative frame should fail")
	}
	opts = Options{Scale: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative scale should fail")
	}
	opts = Options{Formats: []string{"gif"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "flows.csv"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	first := opts.Formats

	// A later invalid change is not re-checked once validated.
	opts.Formats = append(first, "bogus")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Second call should be a no-op: %v", err)
	}
}

func TestOptionsFrameIndex(t *testing.T) {
	tests := []struct {
		frame int
		want  int
	}{
		{0, graph.StaticFrame},
		{1, 0},
		{3, 2},
	}
	for _, tt := range tests {
		o := Options{Frame: tt.frame}
		if got := o.FrameIndex(); got != tt.want {
			t.Errorf("Frame %d: FrameIndex() = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestOptionsNeedsSnapshot(t *testing.T) {
	if (&Options{Formats: []string{"html", "json"}}).NeedsSnapshot() {
		t.Error("html/json should not need a snapshot")
	}
	if !(&Options{Formats: []string{"html", "svg"}}).NeedsSnapshot() {
		t.Error("svg should need a snapshot")
	}
}

func TestDocumentKeyOpts(t *testing.T) {
	base := Options{Input: "flows.csv"}
	base.SetAssembleDefaults()

	withFilter := base
	withFilter.Filters = []filter.Spec{{Name: "big", Column: "value", Op: ">", Value: "15"}}

	k1 := base.DocumentKeyOpts()
	k2 := withFilter.DocumentKeyOpts()
	if len(k1.Filters) != 0 || len(k2.Filters) != 1 {
		t.Fatalf("filters in key = %v / %v", k1.Filters, k2.Filters)
	}
	if k2.Filters[0] != "big:value>15" {
		t.Errorf("filter key = %q", k2.Filters[0])
	}
	if !k1.Timeline || k1.IntervalMS != 800 || k1.Easing != timeline.DefaultEasing {
		t.Errorf("playback in key = %+v", k1)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Frame: 2, Width: 800, Scale: 3, Detailed: true}
	k := o.ArtifactKeyOpts("png")
	if k.Format != "png" || k.Frame != 2 || k.Width != 800 || k.Scale != 3 || !k.Detailed {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}
