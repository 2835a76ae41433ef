package graph

import (
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/timeline"
)

// FormatVersion is the current document format version.
const FormatVersion = 1

// StaticFrame selects the static snapshot in [Document.Snapshot].
const StaticFrame = -1

// =============================================================================
// Document - Rendered Diagram Serialization
// =============================================================================

// Document is the canonical serialization format for a rendered diagram.
//
// The format is designed for round-trip fidelity: a document read back from
// its JSON encoding renders identically to the original result.
type Document struct {
	Version   int           `json:"version"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Columns   Columns       `json:"columns"`
	Histogram bool          `json:"histogram,omitempty"`
	Playback  *Playback     `json:"playback,omitempty"`
	Static    flow.Snapshot `json:"static"`
	Frames    []flow.Frame  `json:"frames,omitempty"`
	Stats     Stats         `json:"stats"`
}

// Columns records which table columns played which role.
type Columns struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  string `json:"value"`
	Time   string `json:"time,omitempty"`
}

// Playback is the serialized timeline control configuration.
type Playback struct {
	IntervalMS int64  `json:"interval_ms"`
	Easing     string `json:"easing"`
}

// Stats summarizes the static snapshot for display.
type Stats struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	TotalFlow float64 `json:"total_flow"`
	Frames    int     `json:"frames"`
}

// Animated reports whether the document carries timeline frames.
func (d Document) Animated() bool {
	return len(d.Frames) > 0
}

// Snapshot returns the snapshot of frame i, or the static snapshot for
// [StaticFrame].
func (d Document) Snapshot(i int) (flow.Snapshot, error) {
	if i == StaticFrame {
		return d.Static, nil
	}
	f, err := d.Frame(i)
	if err != nil {
		return flow.Snapshot{}, err
	}
	return f.Snapshot, nil
}

// Frame returns the frame at index i.
func (d Document) Frame(i int) (flow.Frame, error) {
	if i < 0 || i >= len(d.Frames) {
		return flow.Frame{}, errors.New(errors.ErrCodeNotFound, "frame %d out of range (have %d)", i, len(d.Frames))
	}
	return d.Frames[i], nil
}

// PlaybackSettings returns the timeline settings, falling back to the
// defaults when the document has none.
func (d Document) PlaybackSettings() timeline.Playback {
	if d.Playback == nil {
		return timeline.DefaultPlayback()
	}
	return timeline.Playback{
		Interval: time.Duration(d.Playback.IntervalMS) * time.Millisecond,
		Easing:   d.Playback.Easing,
	}.WithDefaults()
}

// Validate checks the format version and every snapshot's invariants.
func (d Document) Validate() error {
	if d.Version != FormatVersion {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d", d.Version)
	}
	if err := d.Static.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "static snapshot")
	}
	for i, f := range d.Frames {
		if f.Index != i {
			return errors.New(errors.ErrCodeInvalidFormat, "frame %d has index %d", i, f.Index)
		}
		if err := f.Snapshot.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "frame %d", i)
		}
	}
	return nil
}
