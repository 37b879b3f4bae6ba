package buildrun_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
}

func TestExecExecutor(t *testing.T) {
	skipWithoutShell(t)
	script := "echo out; echo err 1>&2"

	out, err := buildrun.ExecExecutor{}.Run(context.Background(), "", "sh", "-c", script)
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(out))

	out, err = buildrun.ExecExecutor{MergeStderr: true}.Run(context.Background(), "", "sh", "-c", script)
	require.NoError(t, err)
	assert.Contains(t, string(out), "out\n")
	assert.Contains(t, string(out), "err\n")
}

func TestExecExecutor_Error(t *testing.T) {
	skipWithoutShell(t)

	_, err := buildrun.ExecExecutor{Env: []string{"MSG=broken"}}.Run(context.Background(), "", "sh", "-c", "echo $MSG 1>&2; exit 3")
	var ee *buildrun.ExecError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "broken", ee.Stderr)
	assert.Contains(t, err.Error(), "exit status 3")
}
