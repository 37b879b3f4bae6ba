package main

import (
	"bytes"
	"testing"
)

func TestRun(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
		code int
	}{
		{"default", nil, "9227465\n", 0},
		{"n=10", []string{"-n", "10"}, "55\n", 0},
		{"n=1", []string{"-n", "1"}, "1\n", 0},
		{"bad_flag", []string{"-x"}, "", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			if code != tc.code {
				t.Fatalf("exit code = %d, want %d (stderr: %q)", code, tc.code, stderr.String())
			}
			if got := stdout.String(); got != tc.want {
				t.Errorf("stdout = %q, want %q", got, tc.want)
			}
		})
	}
}
