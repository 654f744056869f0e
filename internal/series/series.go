// Package series projects sample history into chart-ready series with
// padded value-axis bounds.
package series

import (
	"math"
	"time"

	"github.com/Dicklesworthstone/socmon/internal/model"
)

const (
	// DefaultPeriod is the nominal spacing between samples.
	DefaultPeriod = 200 * time.Millisecond
	// DefaultWindow is the minimum x-axis extent.
	DefaultWindow = 120 * time.Second

	emptyUpper = 10
	padRatio   = 0.1
)

// Window is read access to an ordered run of samples, oldest first.
// *history.Store satisfies it.
type Window interface {
	Len() int
	At(i int) model.Sample
}

// Point is one chart point: seconds since the oldest sample, and the value
// in display units.
type Point struct {
	X, Y float64
}

// Bounds is the value-axis range.
type Bounds struct {
	Lower, Upper float64
}

// Series is a projected metric.
type Series struct {
	Key    model.MetricKey
	Points []Point
	Bounds Bounds
}

// Project maps every present reading of key in w to a point at
// x = index × period. Absent readings leave a gap and do not affect bounds.
func Project(w Window, key model.MetricKey, period time.Duration) Series {
	n := w.Len()
	out := Series{Key: key, Points: make([]Point, 0, n)}
	step := period.Seconds()

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		y, ok := w.At(i).Display(key)
		if !ok {
			continue
		}
		out.Points = append(out.Points, Point{X: float64(i) * step, Y: y})
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	out.Bounds = bounds(lo, hi, len(out.Points) > 0)
	return out
}

func bounds(lo, hi float64, ok bool) Bounds {
	if !ok {
		return Bounds{0, emptyUpper}
	}
	if hi == lo {
		return Bounds{0, hi + emptyUpper}
	}
	pad := (hi - lo) * padRatio
	return Bounds{Lower: math.Max(0, lo-pad), Upper: hi + pad}
}

// XMax returns the x-axis extent for n samples: the elapsed span, but never
// less than window.
func XMax(n int, period, window time.Duration) float64 {
	return math.Max(float64(n)*period.Seconds(), window.Seconds())
}

// Last returns the final point, if any.
func (s Series) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}
