package math2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	type eg struct {
		input Vector2
		exp   float64
	}

	examples := []eg{
		{Vector2{X: 0, Y: 0}, 0},
		{Vector2{X: 1, Y: 1}, 1.414213562},
		{Vector2{X: 3, Y: 4}, 5},
		{Vector2{X: -6, Y: 8}, 10},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, x.input.Magnitude(), 0.000001)
	}
}

func TestDistance(t *testing.T) {
	type eg struct {
		recv Vector2
		arg  Vector2
		out  float64
	}

	examples := []eg{
		{Vector2{X: 1, Y: 1}, Vector2{X: 1, Y: 1}, 0},
		{Vector2{X: 1, Y: 1}, Vector2{X: 4, Y: 5}, 5},
		{Vector2{X: -1, Y: 0}, Vector2{X: 1, Y: 0}, 2},
	}

	for _, x := range examples {
		assert.InDelta(t, x.out, x.recv.Distance(x.arg), 0.000001)
	}
}

func TestUnit(t *testing.T) {
	type eg struct {
		in  Vector2
		out Vector2
	}

	examples := []eg{
		{Vector2{X: 0, Y: 0}, ZeroVector2},
		{Vector2{X: 1e-12, Y: 0}, ZeroVector2},
		{Vector2{X: 3, Y: 4}, Vector2{X: 0.6, Y: 0.8}},
		{Vector2{X: 0, Y: -2}, Vector2{X: 0, Y: -1}},
	}

	for i, x := range examples {
		act := x.in.Unit()
		assert.InDelta(t, x.out.X, act.X, 1e-12, "example %d:X", i+1)
		assert.InDelta(t, x.out.Y, act.Y, 1e-12, "example %d:Y", i+1)
	}
}

func TestSubtract(t *testing.T) {
	v1 := Vector2{X: 1, Y: 2}
	v2 := Vector2{X: 4, Y: 6}

	assert.Equal(t, Vector2{X: 3, Y: 4}, v2.Subtract(v1))
	assert.Equal(t, Vector2{X: 5, Y: 8}, v2.Add(v1))
}

func TestMultiplyByScalar(t *testing.T) {
	v := Vector2{X: 1, Y: 2}

	assert.Equal(t, Vector2{X: 0.5, Y: 1}, v.MultiplyByScalar(0.5))
	assert.Equal(t, Vector2{X: -2, Y: -4}, v.MultiplyByScalar(-2))
}

func TestAngles(t *testing.T) {
	assert.InDelta(t, math.Pi/4, Vector2{X: 1, Y: 1}.Angle(), 1e-12)
	assert.Equal(t, 0.0, ZeroVector2.Angle())

	// The angle to a point points back from it, so the way towards the point
	// is the opposite direction.
	a := Vector2{X: 0, Y: 0}.AngleToPoint(Vector2{X: 10, Y: 0})
	assert.InDelta(t, math.Pi, math.Abs(a), 1e-12)
	assert.InDelta(t, 1, -math.Cos(a), 1e-12)
	assert.InDelta(t, 0, -math.Sin(a), 1e-12)
}

func TestRotateAndPolar(t *testing.T) {
	v := Vector2{X: 1, Y: 0}.Rotate(math.Pi / 2)
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 1, v.Y, 1e-12)

	p := Polar(2, math.Pi)
	assert.InDelta(t, -2, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)
}

func TestFinite(t *testing.T) {
	assert.True(t, Vector2{X: 1, Y: 2}.Finite())
	assert.False(t, Vector2{X: math.NaN(), Y: 2}.Finite())
	assert.False(t, Vector2{X: 1, Y: math.Inf(-1)}.Finite())
}
