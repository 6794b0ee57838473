package main

import (
	"fmt"
	"io"

	"github.com/VuurMos/inverse-kinematics/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

// app is shared by every command. The config is loaded before any of them run.
type app struct {
	v          *viper.Viper
	configPath string
	rig        *config.Rig
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "limb",
		Short:         "Solve and animate two-segment limbs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "rig config file (default is ./config.yaml)")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Bool("log-json", false, "log as JSON")

	a.v.BindPFlag("log.level", f.Lookup("log-level"))
	a.v.BindPFlag("log.json", f.Lookup("log-json"))

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newSolveCmd(a))

	return cmd
}

func (a *app) load(w io.Writer) error {
	r, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}

	if err := configureLogging(r.Log, w); err != nil {
		return err
	}

	a.rig = r
	log.Debugf("loaded config: %+v", *r)
	return nil
}

func configureLogging(c config.Log, w io.Writer) error {
	lvl, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}

	logrus.SetLevel(lvl)
	logrus.SetOutput(w)

	if c.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}
