package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func decode(t *testing.T, out string) []solution {
	t.Helper()

	var sols []solution
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var s solution
		require.NoError(t, json.Unmarshal([]byte(line), &s), line)
		sols = append(sols, s)
	}

	return sols
}

func TestSolve(t *testing.T) {
	out, err := execute(t, context.Background(), "solve", "--target", "150,0")
	require.NoError(t, err)

	sols := decode(t, out)
	require.Len(t, sols, 1)

	s := sols[0]
	assert.Equal(t, 1, s.Tick)
	assert.InDelta(t, 150, s.Reach, 1e-6)
	assert.InDelta(t, 150, s.End.X, 1e-6)
	assert.InDelta(t, 120, s.Joint.Magnitude(), 1e-4)
	assert.InDelta(t, 100, s.Joint.Distance(s.End), 1e-4)
}

func TestSolveTicks(t *testing.T) {
	out, err := execute(t, context.Background(), "solve", "--target", "0,180", "--velocity", "200,0", "--ticks", "5")
	require.NoError(t, err)

	sols := decode(t, out)
	require.Len(t, sols, 5)

	for i := 1; i < len(sols); i++ {
		assert.Greater(t, sols[i].Phase, sols[i-1].Phase)
	}
}

func TestSolveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
limbs:
  - name: short
    near: 10
    far: 10
    min_reach: 0
`), 0o644))

	out, err := execute(t, context.Background(), "--config", path, "solve", "--limb", "short", "--target", "100,0")
	require.NoError(t, err)

	s := decode(t, out)[0]
	assert.InDelta(t, 20, s.Reach, 1e-6)

	_, err = execute(t, context.Background(), "--config", path, "solve", "--limb", "nope")
	assert.Error(t, err)
}

func TestSolveBadFlags(t *testing.T) {
	_, err := execute(t, context.Background(), "solve", "--target", "1,2,3")
	assert.Error(t, err)

	_, err = execute(t, context.Background(), "solve", "--ticks", "0")
	assert.Error(t, err)

	_, err = execute(t, context.Background(), "--log-level", "loud", "solve")
	assert.Error(t, err)
}

func TestRunRejectsHugeFPS(t *testing.T) {
	_, err := execute(t, context.Background(), "run", "--listen", "127.0.0.1:0", "--fps", "2000000000", "--ticks", "1")
	assert.Error(t, err)
}

func TestRunStopsAfterTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, demo := range []string{"--demo=false", "--demo=true"} {
		_, err := execute(t, ctx, "run", "--listen", "127.0.0.1:0", "--fps", "200", "--ticks", "5", demo)
		assert.NoError(t, err, demo)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := execute(t, ctx, "run", "--listen", "127.0.0.1:0")
		done <- err
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run didn't stop")
	}
}
