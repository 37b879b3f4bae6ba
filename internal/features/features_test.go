package features_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/classic-benchmarks/internal/buildrun"
	"github.com/randomizedcoder/classic-benchmarks/internal/features"
)

// amd64Listing is trimmed -S output for a summing loop and a caller that
// stores through a pointer.
const amd64Listing = `# example.com/p
example.com/p.Sum STEXT nosplit size=24 args=0x18 locals=0x0 funcid=0x0 align=0x0
	0x0000 00000 (p.go:3)	TEXT	example.com/p.Sum(SB), NOSPLIT|ABIInternal, $0-24
	0x0000 00000 (p.go:3)	FUNCDATA	$0, gclocals·g2BeySu+wFnoycgXfElmcg==(SB)
	0x0000 00000 (p.go:4)	XORL	CX, CX
	0x0002 00002 (p.go:4)	XORL	DX, DX
	0x0004 00004 (p.go:4)	JMP	17
	0x0006 00006 (p.go:5)	MOVQ	(AX)(CX*8), SI
	0x000a 00010 (p.go:4)	INCQ	CX
	0x000d 00013 (p.go:5)	ADDQ	SI, DX
	0x0010 00016 (p.go:4)	CMPQ	BX, CX
	0x0011 00017 (p.go:4)	JGT	6
	0x0013 00019 (p.go:7)	MOVQ	DX, AX
	0x0016 00022 (p.go:7)	RET
	0x0000 31 c9 31 d2 eb 0b 48 8b 34 c8 48 ff c1 48 01 f2  1.1...H.4.H..H..
	rel 2+0 t=R_USEIFACE type:int+0
example.com/p.Store STEXT size=22 args=0x10 locals=0x8 funcid=0x0 align=0x0
	0x0000 00000 (p.go:10)	TEXT	example.com/p.Store(SB), ABIInternal, $8-16
	0x0000 00000 (p.go:11)	MOVQ	BX, (AX)
	0x0003 00003 (p.go:12)	CALL	example.com/p.Sum(SB)
	0x0008 00008 (p.go:12)	IMULQ	$3, AX
	0x000c 00012 (p.go:12)	PCDATA	$1, $-1
	0x000c 00012 (p.go:12)	TESTQ	AX, AX
	0x000f 00015 (p.go:12)	JEQ	20
	0x0011 00017 (p.go:13)	MOVQ	AX, 8(SP)
	0x0014 00020 (p.go:14)	RET
`

// arm64Listing is the same loop compiled for arm64.
const arm64Listing = `example.com/p.Sum STEXT size=48 args=0x18 locals=0x0 funcid=0x0 align=0x0 leaf
	0x0000 00000 (p.go:3)	TEXT	example.com/p.Sum(SB), LEAF|NOFRAME|ABIInternal, $0-24
	0x0000 00000 (p.go:4)	MOVD	ZR, R2
	0x0004 00004 (p.go:4)	MOVD	ZR, R3
	0x0008 00008 (p.go:4)	JMP	24
	0x000c 00012 (p.go:5)	MOVD	(R0)(R2<<3), R4
	0x0010 00016 (p.go:4)	ADD	$1, R2, R2
	0x0014 00020 (p.go:5)	ADD	R4, R3, R3
	0x0018 00024 (p.go:4)	CMP	R2, R1
	0x001c 00028 (p.go:4)	BGT	12
	0x0020 00032 (p.go:7)	STP	(R3, R3), 8(RSP)
	0x0024 00036 (p.go:7)	BL	runtime.gcWriteBarrier2(SB)
	0x0028 00040 (p.go:7)	MOVD	R3, R0
	0x002c 00044 (p.go:7)	RET	(R30)
`

func TestExtract_amd64(t *testing.T) {
	got, err := features.Extract(strings.NewReader(amd64Listing))
	require.NoError(t, err)

	want := features.Features{
		Instructions: 17,
		Loads:        1,
		Stores:       2,
		Arith:        3,
		Branches:     3,
		Compares:     2,
		Calls:        1,
		Functions:    2,
		BasicBlocks:  5, // 2 entries + {17, 6} in Sum + {20} in Store
		LoopMarkers:  1, // JGT 6 at pc 17
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_arm64(t *testing.T) {
	got, err := features.Extract(strings.NewReader(arm64Listing))
	require.NoError(t, err)

	want := features.Features{
		Instructions: 12,
		Loads:        1, // MOVD (R0)(R2<<3), R4
		Stores:       1, // STP
		Arith:        2,
		Branches:     2,
		Compares:     1,
		Calls:        1,
		Functions:    1,
		BasicBlocks:  3,
		LoopMarkers:  1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Empty(t *testing.T) {
	_, err := features.Extract(strings.NewReader("# example.com/p\n"))
	assert.ErrorIs(t, err, features.ErrNoAssembly)
}

// listingExec returns a canned listing per package.
type listingExec struct {
	mu    sync.Mutex
	calls [][]string
	out   map[string]string // by package
}

func (l *listingExec) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	l.mu.Lock()
	l.calls = append(l.calls, append([]string{name}, args...))
	l.mu.Unlock()

	pkg := args[len(args)-1]
	out, ok := l.out[pkg]
	if !ok {
		return nil, &buildrun.ExecError{Err: errors.New("exit status 1"), Stderr: "no such package"}
	}
	return []byte(out), nil
}

func TestCollector(t *testing.T) {
	lx := &listingExec{out: map[string]string{
		"./cmd/a": amd64Listing,
		"./cmd/b": arm64Listing,
	}}
	programs := []buildrun.Program{
		{Name: "a", Package: "./cmd/a"},
		{Name: "b", Package: "./cmd/b"},
	}

	got, err := features.NewCollector(buildrun.DefaultConfig(), lx, nil).Collect(context.Background(), programs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Program)
	assert.Equal(t, 17, got[0].Instructions)
	assert.Equal(t, "b", got[1].Program)
	assert.Equal(t, 12, got[1].Instructions)

	require.Len(t, lx.calls, 2)
	for _, call := range lx.calls {
		assert.Equal(t, "go", call[0])
		assert.Contains(t, call, "-gcflags=./...=-S")
		assert.Contains(t, call, os.DevNull)
	}
}

func TestCollector_Errors(t *testing.T) {
	c := features.NewCollector(buildrun.DefaultConfig(), &listingExec{out: map[string]string{
		"./cmd/empty": "# nothing compiled\n",
	}}, nil)

	_, err := c.Collect(context.Background(), nil)
	assert.ErrorIs(t, err, buildrun.ErrNoPrograms)

	_, err = c.Collect(context.Background(), []buildrun.Program{{Name: "gone", Package: "./cmd/gone"}})
	var ee *buildrun.ExecError
	assert.ErrorAs(t, err, &ee)

	_, err = c.Collect(context.Background(), []buildrun.Program{{Name: "empty", Package: "./cmd/empty"}})
	assert.ErrorIs(t, err, features.ErrNoAssembly)
}
