package scale

import "github.com/robmorgan/metronome/utils"

// Clamp returns a function that scales a number from the interval [rMin,rMax] to the interval
// [tMin,tMax], clamping the result to the target interval.
func Clamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	return func(m float64) float64 {
		if rMax == rMin {
			return tMin
		}
		v := tMin + (m-rMin)/(rMax-rMin)*(tMax-tMin)
		return utils.Clamp(v, tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return Clamp(rMin, rMax, 0, 1)
}

// TempoPosition maps a tempo in [40,208] onto the swing arm weight position, in percent.
var TempoPosition = Clamp(40, 208, -45, 15)
