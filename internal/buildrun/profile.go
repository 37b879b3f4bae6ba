// Package buildrun builds each benchmark program under a matrix of build
// profiles, runs the binaries and records compile time, run time,
// binary size and status for every (program, profile) pair.
package buildrun

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/randomizedcoder/classic-benchmarks/internal/workload"
)

// Profile is one set of go build options.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	GCFlags  string `yaml:"gcflags,omitempty" json:"gcflags,omitempty"`
	LDFlags  string `yaml:"ldflags,omitempty" json:"ldflags,omitempty"`
	TrimPath bool   `yaml:"trimpath,omitempty" json:"trimpath,omitempty"`
}

// DefaultProfiles returns five profiles spanning unoptimized to
// size-reduced builds.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "debug", GCFlags: "all=-N -l"},
		{Name: "noinline", GCFlags: "all=-l"},
		{Name: "default"},
		{Name: "stripped", LDFlags: "-s -w"},
		{Name: "release", LDFlags: "-s -w", TrimPath: true},
	}
}

// BuildArgs returns the go command arguments that compile pkg into out.
// cold adds -a so every package, std included, is recompiled under the
// profile's flags instead of being served from the build cache.
func (p Profile) BuildArgs(out, pkg string, cold bool) []string {
	args := []string{"build", "-o", out}
	if cold {
		args = append(args, "-a")
	}
	if p.TrimPath {
		args = append(args, "-trimpath")
	}
	if p.GCFlags != "" {
		args = append(args, "-gcflags="+p.GCFlags)
	}
	if p.LDFlags != "" {
		args = append(args, "-ldflags="+p.LDFlags)
	}
	return append(args, pkg)
}

// BinaryName is the file name of the binary for program under p.
func (p Profile) BinaryName(program string) string {
	name := fmt.Sprintf("%s_%s", program, p.Name)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// Validate rejects profiles whose name cannot be used in a file name.
func (p Profile) Validate() error {
	if p.Name == "" || strings.ContainsAny(p.Name, `/\ `) {
		return fmt.Errorf("profile %q: %w", p.Name, ErrProfile)
	}
	return nil
}

// Program is a main package to build and the number it must print.
type Program struct {
	Name    string
	Package string
	Want    int64
}

// ProgramsFor maps workloads onto their cmd/<name> packages.
func ProgramsFor(ws []workload.Workload) []Program {
	out := make([]Program, 0, len(ws))
	for _, w := range ws {
		out = append(out, Program{
			Name:    w.Name(),
			Package: "./cmd/" + w.Name(),
			Want:    w.Want(),
		})
	}
	return out
}
