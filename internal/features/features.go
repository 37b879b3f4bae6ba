// Package features counts instruction classes in the compiler's assembly
// listing of each benchmark program.
//
// The counts describe the shape of the compiled code (how much memory
// traffic, arithmetic, branching and looping it does) and are written
// next to the build results so profiles can be compared against them.
// The listing is what `go build -gcflags=-S` prints; amd64 and arm64
// mnemonics are recognised.
package features

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAssembly is returned when a listing holds no function.
var ErrNoAssembly = errors.New("features: no assembly in listing")

// Features are the counts for one program.
type Features struct {
	Program      string `json:"program"`
	Instructions int    `json:"instruction_count"`
	Loads        int    `json:"load_count"`
	Stores       int    `json:"store_count"`
	Arith        int    `json:"arith_count"`
	Branches     int    `json:"branch_count"`
	Compares     int    `json:"cmp_count"`
	Calls        int    `json:"call_count"`
	Functions    int    `json:"function_count"`
	BasicBlocks  int    `json:"basic_blocks"`
	LoopMarkers  int    `json:"loop_markers"`
}

var (
	// example.com/p.Sum STEXT nosplit size=32 args=0x18 locals=0x0
	funcHeader = regexp.MustCompile(`^\S+ STEXT\b`)

	// \t0x0006 00006 (p.go:5)\tMOVQ\t(AX)(CX*8), SI
	instLine = regexp.MustCompile(`^\s+0x[0-9a-f]+\s+(\d+)\s+\([^)]*\)\s+([A-Z][A-Z0-9.]*)\s*(.*)$`)
)

// pseudo are assembler directives, not machine instructions.
var pseudo = map[string]bool{
	"TEXT": true, "FUNCDATA": true, "PCDATA": true, "NOP": true,
	"PCALIGN": true, "ABSPCALIGN": true,
}

var callOps = map[string]bool{"CALL": true, "BL": true, "JAL": true, "JALR": true}

var arm64Branches = map[string]bool{
	"B": true, "BEQ": true, "BNE": true, "BLT": true, "BLE": true, "BGT": true,
	"BGE": true, "BHI": true, "BHS": true, "BLO": true, "BLS": true, "BCC": true,
	"BCS": true, "BMI": true, "BPL": true, "BVS": true, "BVC": true,
	"CBZ": true, "CBNZ": true, "CBZW": true, "CBNZW": true,
	"TBZ": true, "TBNZ": true,
}

var (
	arithPrefixes   = []string{"ADD", "SUB", "MUL", "IMUL", "DIV", "IDIV", "UDIV", "SDIV", "INC", "DEC", "NEG", "MADD", "MSUB"}
	comparePrefixes = []string{"CMP", "TEST", "CMN", "TST", "UCOMIS", "COMIS"}
)

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isBranch(op string) bool {
	if callOps[op] {
		return false
	}
	return strings.HasPrefix(op, "J") || arm64Branches[op]
}

// memory reports whether an operand addresses memory. Offsets from the
// frame pointer pseudo-registers count too.
func memory(operand string) bool {
	return strings.Contains(operand, "(")
}

// Extract reads a -S listing and returns its counts. Program is left
// empty for the caller to fill.
//
// Basic blocks are estimated as one entry block per function plus one
// per distinct branch target within it. A loop marker is a branch whose
// target precedes it.
func Extract(r io.Reader) (Features, error) {
	var f Features
	targets := map[int]bool{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if funcHeader.MatchString(line) {
			f.BasicBlocks += len(targets)
			clear(targets)
			f.Functions++
			f.BasicBlocks++
			continue
		}
		m := instLine.FindStringSubmatch(line)
		if m == nil || pseudo[m[2]] {
			continue
		}
		pc, _ := strconv.Atoi(m[1])
		op, args := m[2], strings.Split(m[3], ", ")
		f.Instructions++

		switch {
		case callOps[op]:
			f.Calls++
		case isBranch(op):
			f.Branches++
			if target, err := strconv.Atoi(strings.TrimSpace(args[len(args)-1])); err == nil {
				targets[target] = true
				if target <= pc {
					f.LoopMarkers++
				}
			}
		case hasAnyPrefix(op, comparePrefixes):
			f.Compares++
		case hasAnyPrefix(op, arithPrefixes):
			f.Arith++
		case strings.HasPrefix(op, "LD"):
			f.Loads++
		case strings.HasPrefix(op, "ST"):
			f.Stores++
		case strings.HasPrefix(op, "MOV"):
			if memory(args[0]) {
				f.Loads++
			}
			if len(args) > 1 && memory(args[len(args)-1]) {
				f.Stores++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Features{}, fmt.Errorf("features: read listing: %w", err)
	}
	f.BasicBlocks += len(targets)

	if f.Functions == 0 {
		return Features{}, ErrNoAssembly
	}
	return f, nil
}
