package rhythm

import (
	"math"
	"strings"
	"time"

	"github.com/fogleman/ease"
)

// Curve is the easing shape applied to a tempo transition.
type Curve int

const (
	CurveLinear Curve = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut
)

var curveNames = map[Curve]string{
	CurveLinear:    "linear",
	CurveEaseIn:    "ease-in",
	CurveEaseOut:   "ease-out",
	CurveEaseInOut: "ease-in-out",
}

func (c Curve) String() string {
	if name, ok := curveNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCurve converts a curve name such as "ease-in" into a Curve.
func ParseCurve(name string) (Curve, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range curveNames {
		if n == name {
			return c, nil
		}
	}
	return CurveLinear, newConfigError("curve", "unknown curve %q", name)
}

// apply eases the normalized progress t, which must be within [0,1).
func (c Curve) apply(t float64) float64 {
	switch c {
	case CurveEaseIn:
		return ease.InQuad(t)
	case CurveEaseOut:
		return ease.OutQuad(t)
	case CurveEaseInOut:
		return ease.InOutQuad(t)
	default:
		return ease.Linear(t)
	}
}

// TransitionSpec describes a bounded ramp from one tempo to another. A zero Duration means the tempo
// is constant at EndTempo.
type TransitionSpec struct {
	StartTempo float64
	EndTempo   float64
	Duration   time.Duration
	Curve      Curve
}

// Validate checks that the transition can be evaluated.
func (s TransitionSpec) Validate() error {
	if !(s.StartTempo > 0 && !math.IsInf(s.StartTempo, 1)) {
		return newConfigError("transition.startTempo", "must be a finite number greater than zero, got %v", s.StartTempo)
	}
	if !(s.EndTempo > 0 && !math.IsInf(s.EndTempo, 1)) {
		return newConfigError("transition.endTempo", "must be a finite number greater than zero, got %v", s.EndTempo)
	}
	if s.Duration < 0 {
		return newConfigError("transition.duration", "must not be negative, got %v", s.Duration)
	}
	if _, ok := curveNames[s.Curve]; !ok {
		return newConfigError("transition.curve", "unknown curve %d", int(s.Curve))
	}

	return nil
}

// Evaluate returns the instantaneous tempo of the transition after elapsed time. done reports that the
// transition has concluded and the caller should collapse to a constant EndTempo.
//
// elapsed must be measured on the same monotonic clock that drives the tick deadlines.
func Evaluate(spec TransitionSpec, elapsed time.Duration) (tempo float64, done bool) {
	if spec.Duration <= 0 {
		return spec.EndTempo, true
	}
	if elapsed < 0 {
		elapsed = 0
	}

	t := float64(elapsed) / float64(spec.Duration)
	if t >= 1 || math.IsNaN(t) {
		return spec.EndTempo, true
	}

	return spec.StartTempo + (spec.EndTempo-spec.StartTempo)*spec.Curve.apply(t), false
}
