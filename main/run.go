package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ik "github.com/VuurMos/inverse-kinematics"
	"github.com/VuurMos/inverse-kinematics/components/controller"
	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/VuurMos/inverse-kinematics/fake/cursor"
	"github.com/VuurMos/inverse-kinematics/stream"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// How long to wait for the http server to finish on shutdown.
const shutdownTimeout = 3 * time.Second

var errShutdown = errors.New("shutdown requested")

func newRunCmd(a *app) *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tick the rig and stream poses to websocket clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), ticks)
		},
	}

	f := cmd.Flags()
	f.Int("fps", 60, "ticks per second")
	f.String("listen", ":8080", "address to serve websocket clients on (at /ws)")
	f.Bool("demo", false, "sweep the targets around automatically")
	f.IntVar(&ticks, "ticks", 0, "stop after this many ticks (zero runs forever)")

	a.v.BindPFlag("fps", f.Lookup("fps"))
	a.v.BindPFlag("listen", f.Lookup("listen"))
	a.v.BindPFlag("demo", f.Lookup("demo"))

	return cmd
}

func (a *app) run(ctx context.Context, ticks int) error {
	cfg := a.rig

	mounts, err := cfg.Mounts()
	if err != nil {
		return err
	}

	rig := ik.NewRig()
	ctrl := controller.New(rig)
	hub := stream.NewHub(ctrl)

	// The controller always accepts commands, but in demo mode the limbs follow
	// the cursor instead.
	var source limbs.InputSource = ctrl
	if cfg.Demo {
		c := cursor.New(rig)
		rig.Add(c)
		source = c
	} else {
		rig.Add(ctrl)
	}

	lc, err := limbs.New(rig, source, hub, mounts...)
	if err != nil {
		return err
	}
	rig.Add(lc)

	if ticks > 0 {
		rig.Add(&stopAfter{rig: rig, n: ticks})
	}

	log.Infof("booting %d components", len(rig.Components))
	if err := rig.Boot(); err != nil {
		return fmt.Errorf("error while booting: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		log.Infof("listening on %s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	g.Go(func() error {
		return loop(ctx, rig, cfg.FPS)
	})

	err = g.Wait()
	if errors.Is(err, errShutdown) {
		log.Infof("stopped after %d ticks", lc.Frame().Tick)
		return nil
	}

	return err
}

// loop ticks the rig at the given rate until the context is cancelled or a
// component asks to shut down.
func loop(ctx context.Context, rig *ik.Rig, fps int) error {
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("caught signal, shutting down")
			return nil

		case now := <-t.C:
			// Errors are logged by the rig; a bad tick shouldn't stop the loop.
			rig.Tick(now)

			if rig.Shutdown {
				return errShutdown
			}
		}
	}
}

// stopAfter is a component which requests shutdown after a number of ticks.
type stopAfter struct {
	rig *ik.Rig
	n   int
}

func (s *stopAfter) Boot() error {
	return nil
}

func (s *stopAfter) Tick(now time.Time) error {
	s.n -= 1
	if s.n <= 0 {
		s.rig.Shutdown = true
	}

	return nil
}
