// Package timeline splits a flow table into discrete, naturally ordered
// periods for animated diagrams.
//
// Periods are the distinct values of a time column. They are sorted by the
// natural value ordering: chronologically for time columns, numerically for
// numbers and lexically for strings. Periods are always computed from the
// unfiltered table, so a period whose rows are later filtered away still
// has a place in the timeline.
package timeline

import (
	"sort"
	"strconv"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Bucket holds the rows of one period.
type Bucket struct {
	// Value is the period's cell value.
	Value table.Value
	// Rows holds the period's rows with the full table schema.
	Rows *table.Table
}

// Key returns the machine form of the period.
func (b Bucket) Key() string {
	return b.Value.String()
}

// Label returns the display form of the period.
func (b Bucket) Label() string {
	return Label(b.Value)
}

// Split groups the rows of t by the distinct values of column and returns
// one bucket per value in natural order. Rows keep their relative order
// within a bucket. Null cells form their own period, sorted first.
func Split(t *table.Table, column string) ([]Bucket, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	var order []table.Value
	groups := make(map[string][]int)
	for i, v := range values {
		k := v.Key()
		if _, seen := groups[k]; !seen {
			order = append(order, v)
		}
		groups[k] = append(groups[k], i)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return table.Compare(order[i], order[j]) < 0
	})

	buckets := make([]Bucket, len(order))
	for i, v := range order {
		buckets[i] = Bucket{Value: v, Rows: t.Select(groups[v.Key()])}
	}
	return buckets, nil
}

// Periods returns the distinct values of column in natural order.
func Periods(t *table.Table, column string) ([]table.Value, error) {
	buckets, err := Split(t, column)
	if err != nil {
		return nil, err
	}
	out := make([]table.Value, len(buckets))
	for i, b := range buckets {
		out[i] = b.Value
	}
	return out, nil
}

// Label formats a period value for display. Dates at midnight UTC use
// 2006-01-02, other times RFC 3339, numbers the shortest representation
// and strings are returned verbatim.
func Label(v table.Value) string {
	switch v.Kind() {
	case table.KindTime:
		t, _ := v.Time()
		if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case table.KindNumber:
		f, _ := v.Float()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case table.KindNull:
		return "(none)"
	default:
		return v.String()
	}
}

// =============================================================================
// Playback
// =============================================================================

// Default playback settings for the timeline control.
const (
	DefaultInterval = 800 * time.Millisecond
	DefaultEasing   = "cubic-in-out"
)

// Easings lists the transition easings accepted by the timeline control.
var Easings = []string{
	"linear", "quad", "cubic", "sin", "exp", "circle",
	"elastic", "back", "bounce", "cubic-in-out",
}

// Playback configures timeline animation.
type Playback struct {
	// Interval is the time each frame is shown before advancing.
	Interval time.Duration `json:"interval"`
	// Easing names the transition curve between frames.
	Easing string `json:"easing"`
}

// DefaultPlayback returns the default playback settings.
func DefaultPlayback() Playback {
	return Playback{Interval: DefaultInterval, Easing: DefaultEasing}
}

// WithDefaults fills zero fields with the defaults.
func (p Playback) WithDefaults() Playback {
	if p.Interval == 0 {
		p.Interval = DefaultInterval
	}
	if p.Easing == "" {
		p.Easing = DefaultEasing
	}
	return p
}

// Validate checks that the interval is positive and the easing is known.
func (p Playback) Validate() error {
	if p.Interval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "playback interval must be positive, got %s", p.Interval)
	}
	for _, e := range Easings {
		if e == p.Easing {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown easing %q", p.Easing)
}
