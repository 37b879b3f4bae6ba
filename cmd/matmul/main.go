// Command matmul multiplies two n×n integer matrices, a[i][j]=i+j and
// b[i][j]=i*j, with the i-j-k triple loop and prints c[n-1][n-1].
//
// Usage:
//
//	go run ./cmd/matmul             # prints 81021600
//	go run ./cmd/matmul -n 200
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/randomizedcoder/classic-benchmarks/internal/matmul"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("matmul", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", matmul.DefaultN, "matrix side")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a, err := matmul.New(*n)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	b, _ := matmul.New(*n)
	c, _ := matmul.New(*n)

	a.FillIndexSum()
	b.FillIndexProduct()
	if err := matmul.Multiply(c, a, b); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout, c.Corner())
	return 0
}
