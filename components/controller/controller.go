package controller

import (
	"fmt"
	"sync"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/VuurMos/inverse-kinematics/stream"
	"github.com/sirupsen/logrus"
)

const (

	// Maximum speed of the rig body, in units per second. Faster move commands
	// are scaled down to this.
	maxSpeed = 500.0
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "controller",
})

// Controller holds the latest input sent by remote clients. Commands arrive on
// client goroutines, and are read by the tick loop, so everything is guarded.
type Controller struct {
	rig *ik.Rig

	mu sync.Mutex

	// Goal for every limb, set by input commands with no limb name.
	all    *limbs.Goal
	goals  map[string]limbs.Goal
	resets []string

	velocity math2d.Vector2

	// Time of the previous tick, or zero before the first one.
	last time.Time
}

func New(rig *ik.Rig) *Controller {
	return &Controller{
		rig:   rig,
		goals: map[string]limbs.Goal{},
	}
}

func (c *Controller) Boot() error {
	log.Infof("waiting for input")
	return nil
}

// HandleCommand applies a command from a client.
func (c *Controller) HandleCommand(cmd stream.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Type {
	case stream.CommandInput:
		c.input(cmd)

	case stream.CommandMove:
		if cmd.Velocity == nil {
			return fmt.Errorf("move command has no velocity")
		}

		v := *cmd.Velocity
		if !v.Finite() {
			return fmt.Errorf("non-finite velocity: %s", v)
		}

		if v.Magnitude() > maxSpeed {
			v = v.Unit().MultiplyByScalar(maxSpeed)
		}

		c.velocity = v

	case stream.CommandReset:
		c.resets = append(c.resets, cmd.Limb)

	default:
		return fmt.Errorf("unknown command type: %q", cmd.Type)
	}

	return nil
}

// input updates the goal of one limb (or all of them). Fields missing from the
// command keep their previous value.
func (c *Controller) input(cmd stream.Command) {
	if cmd.Limb == "" {
		g := limbs.Goal{}
		if c.all != nil {
			g = *c.all
		}

		c.all = &g
		apply(c.all, cmd)

		// A goal for every limb replaces the individual ones.
		c.goals = map[string]limbs.Goal{}
		return
	}

	g, ok := c.goals[cmd.Limb]
	if !ok && c.all != nil {
		g = *c.all
	}

	apply(&g, cmd)
	c.goals[cmd.Limb] = g
}

func apply(g *limbs.Goal, cmd stream.Command) {
	if cmd.Target != nil {
		g.Target = *cmd.Target
	}

	if cmd.View != nil {
		g.View = *cmd.View
	}
}

// Goal implements limbs.InputSource.
func (c *Controller) Goal(name string) (limbs.Goal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.goals[name]; ok {
		return g, true
	}

	if c.all != nil {
		return *c.all, true
	}

	return limbs.Goal{}, false
}

// TakeResets implements limbs.Resetter. It returns the limbs which have been
// reset since the last call.
func (c *Controller) TakeResets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.resets
	c.resets = nil
	return r
}

// Tick moves the rig at the most recently requested velocity.
func (c *Controller) Tick(now time.Time) error {
	c.mu.Lock()
	v := c.velocity
	c.mu.Unlock()

	var dt float64
	if !c.last.IsZero() {
		dt = now.Sub(c.last).Seconds()
	}
	c.last = now

	c.rig.Velocity = v

	// Update the position, if it's changed.
	if !v.Zero() && dt > 0 {
		c.rig.Pose.Position = c.rig.Pose.Position.Add(v.MultiplyByScalar(dt))
	}

	return nil
}
