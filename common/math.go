package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	diff := math.Mod(b-a+math.Pi, 2*math.Pi)
	if diff < 0 {
		diff += 2 * math.Pi
	}
	return a + (diff-math.Pi)*Clamp01(t)
}

// ClampLength scales v down so its length does not exceed max.
func ClampLength(v cp.Vector, max float64) cp.Vector {
	if max <= 0 {
		return cp.Vector{}
	}
	if v.LengthSq() > max*max {
		return v.Normalize().Mult(max)
	}
	return v
}

// Direction returns the unit vector from a to b, or zero when they coincide.
func Direction(a, b cp.Vector) cp.Vector {
	d := b.Sub(a)
	if d.LengthSq() == 0 {
		return cp.Vector{}
	}
	return d.Normalize()
}
