// Package cursor provides a scripted stand-in for a mouse cursor: a target
// which sweeps around a Lissajous curve, for demos and tests.
package cursor

import (
	"math"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "cursor",
})

// Cursor moves along x = cx + ax*sin(2π fx t), y = cy + ay*sin(2π fy t), in
// world space. Every limb reaches for it.
type Cursor struct {
	rig *ik.Rig

	Center    math2d.Vector2
	Amplitude math2d.Vector2

	// Frequency of each axis, in Hz.
	Frequency math2d.Vector2

	// View is the point every limb is seen from.
	View math2d.Vector2

	start    time.Time
	position math2d.Vector2
	velocity math2d.Vector2
}

// New returns a cursor which sweeps a figure of eight in front of (i.e. below)
// the rig, slowly enough for the gait to be visible.
func New(rig *ik.Rig) *Cursor {
	return &Cursor{
		rig:       rig,
		Center:    math2d.Vector2{X: 0, Y: 150},
		Amplitude: math2d.Vector2{X: 180, Y: 60},
		Frequency: math2d.Vector2{X: 0.1, Y: 0.2},
		View:      math2d.Vector2{X: 200, Y: 0},
	}
}

func (c *Cursor) Boot() error {
	c.position = c.Center
	log.Infof("sweeping around %s by %s", c.Center, c.Amplitude)
	return nil
}

// Position returns the position of the cursor as of the last tick.
func (c *Cursor) Position() math2d.Vector2 {
	return c.position
}

// Velocity returns the velocity of the cursor as of the last tick, in units per
// second.
func (c *Cursor) Velocity() math2d.Vector2 {
	return c.velocity
}

// Tick moves the cursor, and sets the velocity of the rig to match it, so the
// limbs step as it moves.
func (c *Cursor) Tick(now time.Time) error {
	if c.start.IsZero() {
		c.start = now
	}

	t := now.Sub(c.start).Seconds()
	wx := 2 * math.Pi * c.Frequency.X
	wy := 2 * math.Pi * c.Frequency.Y

	c.position = math2d.Vector2{
		X: c.Center.X + c.Amplitude.X*math.Sin(wx*t),
		Y: c.Center.Y + c.Amplitude.Y*math.Sin(wy*t),
	}

	c.velocity = math2d.Vector2{
		X: c.Amplitude.X * wx * math.Cos(wx*t),
		Y: c.Amplitude.Y * wy * math.Cos(wy*t),
	}

	c.rig.Velocity = c.velocity
	return nil
}

// Goal implements limbs.InputSource.
func (c *Cursor) Goal(name string) (limbs.Goal, bool) {
	return limbs.Goal{
		Target: c.position,
		View:   c.View,
	}, true
}
