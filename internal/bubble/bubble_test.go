package bubble_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/randomizedcoder/classic-benchmarks/internal/bubble"
)

func TestSort_Default(t *testing.T) {
	arr := bubble.Descending(bubble.DefaultN)
	bubble.Sort(arr)

	if arr[0] != bubble.WantFirst {
		t.Errorf("arr[0] = %d, want %d", arr[0], bubble.WantFirst)
	}
	if arr[len(arr)-1] != bubble.DefaultN {
		t.Errorf("arr[last] = %d, want %d", arr[len(arr)-1], bubble.DefaultN)
	}
	if !slices.IsSorted(arr) {
		t.Error("expected ascending order")
	}
}

func TestSort_Cases(t *testing.T) {
	testCases := []struct {
		name string
		in   []int32
		want []int32
	}{
		{"empty", []int32{}, []int32{}},
		{"single", []int32{7}, []int32{7}},
		{"sorted", []int32{1, 2, 3}, []int32{1, 2, 3}},
		{"reversed", []int32{3, 2, 1}, []int32{1, 2, 3}},
		{"duplicates", []int32{2, 1, 2, 1}, []int32{1, 1, 2, 2}},
		{"negative", []int32{0, -5, 3, -1}, []int32{-5, -1, 0, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Clone(tc.in)
			bubble.Sort(got)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Sort(%v) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestDescending(t *testing.T) {
	if diff := cmp.Diff([]int32{4, 3, 2, 1}, bubble.Descending(4)); diff != "" {
		t.Errorf("Descending(4) mismatch (-want +got):\n%s", diff)
	}
	if got := bubble.Descending(0); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
