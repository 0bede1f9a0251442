package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Gravity is the downward acceleration of the physics space, in units/s².
const Gravity = 980.0

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// VInterpTo moves current toward target by a fraction dt*speed of the
// remaining distance. A non-positive speed jumps straight to target.
func VInterpTo(current, target cp.Vector, dt, speed float64) cp.Vector {
	if speed <= 0 {
		return target
	}
	dist := target.Sub(current)
	if dist.LengthSq() < 1e-8 {
		return target
	}
	return current.Add(dist.Mult(Clamp(dt*speed, 0, 1)))
}

// NormalizeAngle wraps a into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// RInterpTo turns current toward target along the shortest arc.
func RInterpTo(current, target, dt, speed float64) float64 {
	if speed <= 0 {
		return NormalizeAngle(target)
	}
	delta := NormalizeAngle(target - current)
	if math.Abs(delta) < 1e-6 {
		return NormalizeAngle(target)
	}
	return NormalizeAngle(current + delta*Clamp(dt*speed, 0, 1))
}

// SafeNormal returns the unit vector of v, or zero for a near-zero v.
func SafeNormal(v cp.Vector) cp.Vector {
	l := v.Length()
	if l < 1e-8 {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// AngleBetween returns the unsigned angle between a and b in radians.
func AngleBetween(a, b cp.Vector) float64 {
	na, nb := SafeNormal(a), SafeNormal(b)
	if na.LengthSq() == 0 || nb.LengthSq() == 0 {
		return 0
	}
	return math.Acos(Clamp(na.Dot(nb), -1, 1))
}

func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}
