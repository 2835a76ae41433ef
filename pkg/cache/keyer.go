package cache

import "fmt"

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// DocumentKey identifies a rendered document for an input and the
	// options that shape it.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string

	// ArtifactKey identifies one output format produced from a document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts holds the options that change a rendered document.
type DocumentKeyOpts struct {
	ID              string   `json:"id,omitempty"`
	Source          string   `json:"source"`
	Target          string   `json:"target"`
	Value           string   `json:"value"`
	Time            string   `json:"time,omitempty"`
	Title           string   `json:"title,omitempty"`
	Histogram       bool     `json:"histogram,omitempty"`
	Timeline        bool     `json:"timeline,omitempty"`
	IntervalMS      int64    `json:"interval_ms,omitempty"`
	Easing          string   `json:"easing,omitempty"`
	Filters         []string `json:"filters,omitempty"`
	NodeMetric      string   `json:"node_metric,omitempty"`
	EdgeMetric      string   `json:"edge_metric,omitempty"`
	NodeColorMetric string   `json:"node_color_metric,omitempty"`
	EdgeColorMetric string   `json:"edge_color_metric,omitempty"`
}

// ArtifactKeyOpts holds the options that change an exported artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Frame    int     `json:"frame"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "document:<hash>".
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("document", inputHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), documentHash, opts)
}
