package ik

import (
	"fmt"
	"time"

	"github.com/VuurMos/inverse-kinematics/math2d"
)

// Rig is the body which limbs are attached to. It owns the components which are
// ticked every frame by the host loop.
type Rig struct {
	Components []Component

	// The world position and heading of the rig body. Components which move the
	// body (e.g. a controller) update it; limbs read it to convert between world
	// and limb space.
	Pose math2d.Pose

	// Velocity of the body in world units/second.
	Velocity math2d.Vector2

	// Components can set this to true to indicate that the host should stop.
	Shutdown bool
}

type Component interface {
	Boot() error
	Tick(time.Time) error
}

// NewRig creates an empty rig at the world origin.
func NewRig() *Rig {
	return &Rig{
		Components: []Component{},
	}
}

// Add registers a component to receive ticks every frame.
func (r *Rig) Add(c Component) {
	r.Components = append(r.Components, c)
}

// Boot calls Boot on each component, stopping at the first failure.
func (r *Rig) Boot() error {
	for i, c := range r.Components {
		err := c.Boot()
		if err != nil {
			return fmt.Errorf("booting component %d (%T): %w", i, c, err)
		}
	}

	return nil
}

// Tick calls Tick on each component. Every component is ticked even if an
// earlier one fails; the first error is returned.
func (r *Rig) Tick(now time.Time) error {
	var first error

	for _, c := range r.Components {
		err := c.Tick(now)
		if err != nil {
			log.Errorf("tick failed in %T: %s", c, err)
			if first == nil {
				first = err
			}
		}
	}

	return first
}

// World transforms a vector in the rig space into the world space, taking into
// account its current position and heading.
func (r *Rig) World(v math2d.Vector2) math2d.Vector2 {
	return r.Pose.ToWorld(v)
}

// Local transforms a vector in the world space into the rig space.
func (r *Rig) Local(v math2d.Vector2) math2d.Vector2 {
	return r.Pose.ToLocal(v)
}
