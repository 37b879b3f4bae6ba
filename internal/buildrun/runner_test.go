package buildrun_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
	"github.com/randomizedcoder/classic-benchmarks/internal/workload"
)

// fakeExec stands in for the go tool and the built binaries.
//
// "go build -o <bin> ..." writes <bin> with sizes[profile] bytes, where
// the profile is the suffix of the binary name. Running a binary prints
// outputs[program] or fails/hangs as configured.
type fakeExec struct {
	mu       sync.Mutex
	calls    []string
	sizes    map[string]int
	outputs  map[string]string
	buildErr map[string]bool // by program_profile
	runErr   map[string]bool // by program
	hang     map[string]bool // by program
}

func newFakeExec() *fakeExec {
	return &fakeExec{
		sizes:    map[string]int{},
		outputs:  map[string]string{},
		buildErr: map[string]bool{},
		runErr:   map[string]bool{},
		hang:     map[string]bool{},
	}
}

func (f *fakeExec) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	f.mu.Unlock()

	if name == "go" {
		bin := args[2]
		base := filepath.Base(bin)
		if f.buildErr[base] {
			return nil, &buildrun.ExecError{Err: errors.New("exit status 1"), Stderr: "syntax error\nmore"}
		}
		profile := base[strings.LastIndex(base, "_")+1:]
		return nil, os.WriteFile(bin, make([]byte, f.sizes[profile]), 0o755)
	}

	program := filepath.Base(name)
	program = program[:strings.LastIndex(program, "_")]
	switch {
	case f.hang[program]:
		<-ctx.Done()
		return nil, ctx.Err()
	case f.runErr[program]:
		return nil, &buildrun.ExecError{Err: errors.New("signal: segmentation fault")}
	}
	return []byte(f.outputs[program] + "\n"), nil
}

func testConfig(t *testing.T) buildrun.Config {
	cfg := buildrun.DefaultConfig()
	cfg.BinDir = t.TempDir()
	cfg.Profiles = []buildrun.Profile{{Name: "a"}, {Name: "b", LDFlags: "-s -w"}}
	cfg.RunTimeout = time.Second
	return cfg
}

var programs = []buildrun.Program{
	{Name: "fibonacci", Package: "./cmd/fibonacci", Want: 9227465},
	{Name: "bubblesort", Package: "./cmd/bubblesort", Want: 1},
}

func TestRun_AllOK(t *testing.T) {
	fx := newFakeExec()
	fx.sizes["a"], fx.sizes["b"] = 300, 200
	fx.outputs["fibonacci"], fx.outputs["bubblesort"] = "9227465", "1"

	res, err := buildrun.NewRunner(testConfig(t), fx, zaptest.NewLogger(t)).Run(context.Background(), programs)
	require.NoError(t, err)
	require.Len(t, res, 4)

	wantOrder := [][2]string{{"fibonacci", "a"}, {"fibonacci", "b"}, {"bubblesort", "a"}, {"bubblesort", "b"}}
	for i, r := range res {
		assert.Equal(t, wantOrder[i][0], r.Program)
		assert.Equal(t, wantOrder[i][1], r.Profile)
		assert.True(t, r.OK(), "%s/%s: %s", r.Program, r.Profile, r.Status)
		assert.Positive(t, r.CompileTime)
	}
	assert.Equal(t, int64(300), res[0].BinarySize)
	assert.Equal(t, int64(200), res[1].BinarySize)
	assert.Equal(t, "9227465", res[0].Output)
}

func TestRun_Failures(t *testing.T) {
	fx := newFakeExec()
	fx.outputs["fibonacci"] = "42"
	fx.buildErr["bubblesort_a"] = true
	fx.runErr["bubblesort"] = true

	res, err := buildrun.NewRunner(testConfig(t), fx, nil).Run(context.Background(), programs)
	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.Equal(t, buildrun.StatusMismatch, res[0].Status)
	assert.Equal(t, "42", res[0].Output)
	assert.Equal(t, "compile_error: exit status 1: syntax error", res[2].Status)
	assert.Zero(t, res[2].BinarySize)
	assert.Equal(t, "runtime_error: signal: segmentation fault", res[3].Status)
	assert.False(t, res[3].OK())
}

func TestRun_Timeout(t *testing.T) {
	fx := newFakeExec()
	fx.hang["fibonacci"] = true
	fx.outputs["bubblesort"] = "1"

	cfg := testConfig(t)
	cfg.RunTimeout = 20 * time.Millisecond

	res, err := buildrun.NewRunner(cfg, fx, nil).Run(context.Background(), programs)
	require.NoError(t, err)
	assert.Equal(t, buildrun.StatusTimeout, res[0].Status)
	assert.Equal(t, buildrun.StatusOK, res[2].Status)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := buildrun.NewRunner(testConfig(t), newFakeExec(), nil).Run(ctx, programs)
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range res {
		assert.Equal(t, buildrun.StatusCanceled, r.Status)
	}
}

func TestRun_Runs(t *testing.T) {
	fx := newFakeExec()
	fx.outputs["fibonacci"] = "9227465"

	cfg := testConfig(t)
	cfg.Runs = 3
	cfg.Profiles = cfg.Profiles[:1]

	_, err := buildrun.NewRunner(cfg, fx, nil).Run(context.Background(), programs[:1])
	require.NoError(t, err)
	assert.Len(t, fx.calls, 4, "one build and three runs")
}

func TestRun_Errors(t *testing.T) {
	_, err := buildrun.NewRunner(testConfig(t), newFakeExec(), nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, buildrun.ErrNoPrograms)

	cfg := testConfig(t)
	cfg.Profiles = []buildrun.Profile{{Name: "has space"}}
	_, err = buildrun.NewRunner(cfg, newFakeExec(), nil).Run(context.Background(), programs)
	assert.ErrorIs(t, err, buildrun.ErrProfile)
}

func TestBuildArgs(t *testing.T) {
	testCases := []struct {
		p    buildrun.Profile
		cold bool
		want []string
	}{
		{buildrun.Profile{Name: "default"}, false, []string{"build", "-o", "out", "./cmd/x"}},
		{buildrun.Profile{Name: "default"}, true, []string{"build", "-o", "out", "-a", "./cmd/x"}},
		{
			buildrun.Profile{Name: "debug", GCFlags: "all=-N -l"}, false,
			[]string{"build", "-o", "out", "-gcflags=all=-N -l", "./cmd/x"},
		},
		{
			buildrun.Profile{Name: "release", LDFlags: "-s -w", TrimPath: true}, true,
			[]string{"build", "-o", "out", "-a", "-trimpath", "-ldflags=-s -w", "./cmd/x"},
		},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.p.BuildArgs("out", "./cmd/x", tc.cold), tc.p.Name)
	}
}

// Compile time must not depend on what an earlier build left in the
// cache, so the default configuration forces a full rebuild.
func TestRun_ColdBuild(t *testing.T) {
	for _, cold := range []bool{true, false} {
		t.Run(fmt.Sprintf("cold=%v", cold), func(t *testing.T) {
			fx := newFakeExec()
			fx.outputs["fibonacci"], fx.outputs["bubblesort"] = "9227465", "1"
			cfg := testConfig(t)
			cfg.Cold = cold

			_, err := buildrun.NewRunner(cfg, fx, nil).Run(context.Background(), programs)
			require.NoError(t, err)

			builds := 0
			for _, call := range fx.calls {
				if !strings.HasPrefix(call, "go build ") {
					continue
				}
				builds++
				assert.Equal(t, cold, strings.Contains(call, " -a "), call)
			}
			assert.Equal(t, len(programs)*len(cfg.Profiles), builds)
		})
	}
}

func TestDefaultProfiles(t *testing.T) {
	assert.True(t, buildrun.DefaultConfig().Cold)

	ps := buildrun.DefaultProfiles()
	require.Len(t, ps, 5)
	for _, p := range ps {
		assert.NoError(t, p.Validate())
	}
}

func TestProgramsFor(t *testing.T) {
	ps := buildrun.ProgramsFor(workload.All())
	require.Len(t, ps, 3)
	assert.Equal(t, buildrun.Program{Name: "bubblesort", Package: "./cmd/bubblesort", Want: 1}, ps[0])
	assert.Equal(t, int64(81021600), ps[2].Want)
}
