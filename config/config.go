// Package config loads the description of a rig (its limbs, and how the host
// runs them) from an optional YAML file, the environment, and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/gait"
	"github.com/VuurMos/inverse-kinematics/math2d"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variables, e.g. LIMB_LOG_LEVEL.
const EnvPrefix = "LIMB"

type Rig struct {
	FPS    int    `mapstructure:"fps"`
	Listen string `mapstructure:"listen"`
	Demo   bool   `mapstructure:"demo"`
	Log    Log    `mapstructure:"log"`

	Limbs []LimbSpec `mapstructure:"limbs"`
}

type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// LimbSpec describes a single limb and where it's mounted. Anything left out
// takes the value from ik.DefaultConfig.
type LimbSpec struct {
	Name  string         `mapstructure:"name"`
	Mount math2d.Pose    `mapstructure:"mount"`
	Home  math2d.Vector2 `mapstructure:"home"`

	Near float64 `mapstructure:"near"`
	Far  float64 `mapstructure:"far"`

	// Zero is a valid min reach, so nil means unset.
	MinReach *float64 `mapstructure:"min_reach"`

	Flip  int       `mapstructure:"flip"`
	Depth bool      `mapstructure:"depth"`
	Gait  *GaitSpec `mapstructure:"gait"`
}

// GaitSpec overrides some of gait.DefaultParams. Zero is meaningful for every
// field, so nil means unset.
type GaitSpec struct {
	Enabled       *bool           `mapstructure:"enabled"`
	Speed         *float64        `mapstructure:"speed"`
	Step          *math2d.Vector2 `mapstructure:"step"`
	VelocityScale *float64        `mapstructure:"velocity_scale"`
	Exponent      *float64        `mapstructure:"exponent"`
}

// Default returns the rig used when no config file is given: a single leg
// reaching for a point below its anchor.
func Default() *Rig {
	return &Rig{
		FPS:    60,
		Listen: ":8080",
		Log: Log{
			Level: "info",
		},
		Limbs: []LimbSpec{
			{
				Name: "leg",
				Home: math2d.Vector2{X: 0, Y: 180},
			},
		},
	}
}

// Load reads the config file at path into a rig. If path is empty, config.yaml
// in the working directory is used if it exists. Values from the environment
// override the file.
func Load(v *viper.Viper, path string) (*Rig, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("fps", d.FPS)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("demo", d.Demo)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	r := &Rig{}
	if err := v.Unmarshal(r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(r.Limbs) == 0 {
		r.Limbs = d.Limbs
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Rig) Validate() error {
	// The tick interval is a whole number of nanoseconds.
	if r.FPS <= 0 || r.FPS > int(time.Second) {
		return fmt.Errorf("fps must be in [1, %d], got %d", int(time.Second), r.FPS)
	}

	_, err := r.Mounts()
	return err
}

// Mounts converts the limb specs into mounts for the limbs component.
func (r *Rig) Mounts() ([]limbs.Mount, error) {
	mounts := make([]limbs.Mount, 0, len(r.Limbs))
	seen := map[string]bool{}

	for i, ls := range r.Limbs {
		if ls.Name == "" {
			return nil, fmt.Errorf("limb %d has no name", i)
		}

		if seen[ls.Name] {
			return nil, fmt.Errorf("duplicate limb name: %q", ls.Name)
		}
		seen[ls.Name] = true

		c := ls.LimbConfig()
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("limb %q: %w", ls.Name, err)
		}

		mounts = append(mounts, limbs.Mount{
			Name:   ls.Name,
			Pose:   ls.Mount,
			Config: c,
			Home:   ls.Home,
		})
	}

	return mounts, nil
}

// LimbConfig returns the config for the limb, with defaults filled in. It isn't
// validated.
func (ls LimbSpec) LimbConfig() ik.Config {
	c := ik.DefaultConfig()

	if ls.Near != 0 {
		c.NearLength = ls.Near
	}

	if ls.Far != 0 {
		c.FarLength = ls.Far
	}

	if ls.MinReach != nil {
		c.MinReach = *ls.MinReach
	}

	if ls.Flip != 0 {
		c.Flip = ls.Flip
	}

	c.Depth = ls.Depth

	if ls.Gait != nil {
		c.Gait = ls.Gait.params()
	}

	return c
}

func (gs GaitSpec) params() gait.Params {
	p := gait.DefaultParams()

	if gs.Enabled != nil {
		p.Enabled = *gs.Enabled
	}

	if gs.Speed != nil {
		p.Speed = *gs.Speed
	}

	if gs.Step != nil {
		p.StepSize = *gs.Step
	}

	if gs.VelocityScale != nil {
		p.VelocityScale = *gs.VelocityScale
	}

	if gs.Exponent != nil {
		p.Exponent = *gs.Exponent
	}

	return p
}
