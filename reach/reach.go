// Package reach solves the pose of a two-segment limb analytically.
//
// The far segment (thigh) hangs from the anchor, and the near segment (calf)
// hangs from the joint between them. Given a target, the limb end is placed as
// close to it as the segments allow, and the joint is found with the law of
// cosines:
//
//	        (joint)
//	         /   \
//	      far     near
//	       /        \
//	  (anchor)----d----(end)
//
// There are two mirror-image joint positions for every reachable end; Flip
// selects between them.
package reach

import (
	"math"

	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/VuurMos/inverse-kinematics/utils"
)

// Below this, the anchor and end are considered coincident and the joint angle
// is undefined.
const degenerateReach = 1e-9

type Params struct {
	Near     float64
	Far      float64
	MinReach float64

	// Flip is +1 or -1. Any other value scales the origin angle, which isn't
	// meaningful, so callers should validate it first.
	Flip float64
}

// MaxReach is the length of the limb when fully extended.
func (p Params) MaxReach() float64 {
	return p.Near + p.Far
}

// MinReachFloor returns the shortest distance to which the end will be pulled
// in. This is MinReach, unless that's shorter than the difference between the
// segment lengths, in which case the segments can't fold far enough to reach
// it, and the difference is used instead.
func (p Params) MinReachFloor() float64 {
	return math.Max(p.MinReach, math.Abs(p.Far-p.Near))
}

type Solution struct {
	Joint math2d.Vector2
	End   math2d.Vector2

	// OriginAngle is the signed angle (radians) between the anchor-end chord and
	// the far segment, at the anchor.
	OriginAngle float64

	// TargetAngle is the angle from the target back to the anchor, as returned
	// by Vector2.AngleToPoint. The chord points along (-cos, -sin) of it.
	TargetAngle float64

	// Reach is the clamped distance between the anchor and the end.
	Reach float64
}

// Solve places the end as close to the target as the limb allows, and returns
// the joint position which connects it to the anchor. There's no failure case;
// an unreachable target is clamped to the nearest reachable point on the line
// towards it.
func Solve(anchor, target math2d.Vector2, p Params) Solution {
	ta := anchor.AngleToPoint(target)
	d := utils.Clamp(anchor.Distance(target), p.MinReachFloor(), p.MaxReach())

	end := anchor.Add(math2d.MakeVector2(-math.Cos(ta), -math.Sin(ta)).MultiplyByScalar(d))

	oa := p.Flip * sss(p.Near, p.Far, d)
	joint := anchor.Add(math2d.MakeVector2(-math.Cos(oa-ta), math.Sin(oa-ta)).MultiplyByScalar(p.Far))

	return Solution{
		Joint:       joint,
		End:         end,
		OriginAngle: oa,
		TargetAngle: ta,
		Reach:       d,
	}
}

// sss returns the angle (in radians) opposite side a of a triangle, given the
// length of sides a, b, and c. The cosine is clamped, since rounding at full
// extension or full fold pushes it slightly outside [-1, 1].
// See: http://en.wikipedia.org/wiki/Solution_of_triangles
func sss(a float64, b float64, c float64) float64 {
	if b < degenerateReach || c < degenerateReach {
		return 0
	}

	return math.Acos(utils.Clamp(((b*b)+(c*c)-(a*a))/(2*b*c), -1, 1))
}
