package main

import (
	"encoding/json"
	"fmt"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/spf13/cobra"
)

// solution is one line of output from the solve command.
type solution struct {
	Tick   int            `json:"tick"`
	Phase  float64        `json:"phase"`
	Reach  float64        `json:"reach"`
	Target math2d.Vector2 `json:"target"`
	Joint  math2d.Vector2 `json:"joint"`
	End    math2d.Vector2 `json:"end"`
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		name    string
		ticks   int
		elapsed time.Duration
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a single limb and print its pose as JSON, once per tick",
		Example: `  limb solve --target 150,0
  limb solve --limb left --target 0,200 --velocity 100,0 --ticks 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ik.Input{Elapsed: elapsed}

			var err error
			for flag, dst := range map[string]*math2d.Vector2{
				"anchor":   &in.Anchor,
				"target":   &in.Target,
				"velocity": &in.Velocity,
				"view":     &in.View,
			} {
				if *dst, err = vectorFlag(cmd, flag); err != nil {
					return err
				}
			}

			if ticks < 1 {
				return fmt.Errorf("ticks must be at least one, got %d", ticks)
			}

			c, err := a.limbConfig(name)
			if err != nil {
				return err
			}

			limb, err := ik.New(c)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 1; i <= ticks; i++ {
				p := limb.Tick(in)
				err := enc.Encode(solution{
					Tick:   i,
					Phase:  limb.State().Phase,
					Reach:  p.End.Distance(in.Anchor),
					Target: p.EffectiveTarget,
					Joint:  p.Joint,
					End:    p.End,
				})
				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "limb", "", "name of the limb to solve (default is the first)")
	f.IntVar(&ticks, "ticks", 1, "number of ticks to run")
	f.DurationVar(&elapsed, "elapsed", 0, "time between ticks (default is one fixed tick)")
	f.Float64Slice("anchor", []float64{0, 0}, "anchor position x,y")
	f.Float64Slice("target", []float64{0, 0}, "target position x,y")
	f.Float64Slice("velocity", []float64{0, 0}, "body velocity x,y in units/second")
	f.Float64Slice("view", []float64{0, 0}, "view position x,y (for depth)")

	return cmd
}

func vectorFlag(cmd *cobra.Command, name string) (math2d.Vector2, error) {
	s, err := cmd.Flags().GetFloat64Slice(name)
	if err != nil {
		return math2d.ZeroVector2, err
	}

	if len(s) != 2 {
		return math2d.ZeroVector2, fmt.Errorf("--%s needs two values (x,y), got %d", name, len(s))
	}

	return math2d.MakeVector2(s[0], s[1]), nil
}

// limbConfig returns the config of the named limb, or the first one.
func (a *app) limbConfig(name string) (ik.Config, error) {
	for _, ls := range a.rig.Limbs {
		if name == "" || ls.Name == name {
			return ls.LimbConfig(), nil
		}
	}

	return ik.Config{}, fmt.Errorf("no such limb: %q", name)
}
