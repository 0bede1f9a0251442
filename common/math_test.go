package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestVInterpTo(t *testing.T) {
	cases := []struct {
		name   string
		cur    cp.Vector
		target cp.Vector
		dt     float64
		speed  float64
		want   cp.Vector
	}{
		{"fraction", cp.Vector{}, cp.Vector{X: 100}, 0.1, 5, cp.Vector{X: 50}},
		{"overshoot_clamped", cp.Vector{}, cp.Vector{Y: 10}, 1, 5, cp.Vector{Y: 10}},
		{"zero_speed_jumps", cp.Vector{X: 1}, cp.Vector{X: 9}, 0.1, 0, cp.Vector{X: 9}},
		{"already_there", cp.Vector{X: 3}, cp.Vector{X: 3}, 0.1, 5, cp.Vector{X: 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := VInterpTo(c.cur, c.target, c.dt, c.speed)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
		})
	}
}

func TestRInterpToTakesShortestArc(t *testing.T) {
	cur := Deg2Rad(170)
	target := Deg2Rad(-170)
	got := RInterpTo(cur, target, 0.25, 2)
	// half of the 20 degree gap, crossing the ±180 seam
	assert.InDelta(t, Deg2Rad(180), math.Abs(got), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, math.Pi/2, AngleBetween(cp.Vector{X: 1}, cp.Vector{Y: 5}), 1e-12)
	assert.InDelta(t, 0.0, AngleBetween(cp.Vector{}, cp.Vector{Y: 5}), 1e-12)
	assert.Equal(t, cp.Vector{}, SafeNormal(cp.Vector{}))
}
