package metric

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Default colors used when no color metric applies.
const (
	DefaultNodeColor = "rgba(100, 150, 200, 0.8)"
	DefaultEdgeColor = "rgba(100, 150, 200, 0.4)"
)

// Gradient maps normalized intensities onto a color ramp. Colors are blended
// in CIE L*a*b* so the perceived lightness changes evenly along the ramp.
type Gradient struct {
	Low   colorful.Color
	High  colorful.Color
	Alpha float64
}

// DefaultGradient runs from blue (low) to red (high) at 60% opacity.
func DefaultGradient() Gradient {
	return Gradient{
		Low:   colorful.Color{R: 0, G: 100.0 / 255, B: 1},
		High:  colorful.Color{R: 1, G: 100.0 / 255, B: 0},
		Alpha: 0.6,
	}
}

// At returns the CSS color at position t in [0, 1]. Values outside the
// range are clamped.
func (g Gradient) At(t float64) string {
	var c colorful.Color
	switch {
	case math.IsNaN(t) || t <= 0:
		c = g.Low
	case t >= 1:
		c = g.High
	default:
		c = g.Low.BlendLab(g.High, t).Clamped()
	}
	r, gr, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, gr, b, g.Alpha)
}

// Color normalizes v into [min, max] and returns the color at that position.
func (g Gradient) Color(v, min, max float64) string {
	return g.At(Normalize(v, min, max))
}

// Normalize maps v linearly from [min, max] onto [0, 1]. When the range is
// empty every value maps to the midpoint 0.5.
func Normalize(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return (v - min) / (max - min)
}

// Range returns the minimum and maximum of values. It returns 0, 0 for an
// empty slice.
func Range(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
