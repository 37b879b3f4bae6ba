// Package bubble provides the bubble sort workload.
package bubble

const (
	// DefaultN is the array length used by the bubblesort program.
	DefaultN = 1000

	// WantFirst is arr[0] after sorting Descending(DefaultN).
	WantFirst = 1
)

// Sort orders arr ascending in place by swapping adjacent elements.
// Pass i stops at len(arr)-i-1, where the largest remaining value has
// already settled.
func Sort(arr []int32) {
	n := len(arr)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			if arr[j] > arr[j+1] {
				arr[j], arr[j+1] = arr[j+1], arr[j]
			}
		}
	}
}

// Descending returns n, n-1, ..., 1, the worst case for Sort.
func Descending(n int) []int32 {
	arr := make([]int32, n)
	for i := range arr {
		arr[i] = int32(n - i)
	}
	return arr
}
