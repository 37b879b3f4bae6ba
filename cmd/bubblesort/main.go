// Command bubblesort bubble-sorts the descending sequence n..1 and prints
// the first element of the sorted array.
//
// Usage:
//
//	go run ./cmd/bubblesort         # prints 1
//	go run ./cmd/bubblesort -n 5000
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/randomizedcoder/classic-benchmarks/internal/bubble"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bubblesort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", bubble.DefaultN, "array length")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *n < 1 {
		fmt.Fprintln(stderr, "bubblesort: -n must be at least 1")
		return 2
	}

	arr := bubble.Descending(*n)
	bubble.Sort(arr)

	fmt.Fprintln(stdout, arr[0])
	return 0
}
