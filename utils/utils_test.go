package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegRad(t *testing.T) {
	type eg struct {
		deg float64
		rad float64
	}

	examples := []eg{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
		{360, 2 * math.Pi},
	}

	for i, x := range examples {
		assert.InDelta(t, x.rad, Rad(x.deg), 1e-12, "example %d: Rad(%v)", i+1, x.deg)
		assert.InDelta(t, x.deg, Deg(x.rad), 1e-12, "example %d: Deg(%v)", i+1, x.rad)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 1.0, Clamp(1.0000000000000002, -1, 1))
}
