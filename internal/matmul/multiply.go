package matmul

import "fmt"

func checkShapes(c, a, b *Matrix) error {
	if a.n != b.n || a.n != c.n {
		return fmt.Errorf("%dx%d * %dx%d -> %dx%d: %w",
			a.n, a.n, b.n, b.n, c.n, c.n, ErrDimensionMismatch)
	}
	return nil
}

// Multiply computes c = a * b with the textbook i-j-k loop order.
// c is zeroed first and must not alias a or b.
func Multiply(c, a, b *Matrix) error {
	if err := checkShapes(c, a, b); err != nil {
		return err
	}
	n := a.n
	c.Zero()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum int32
			for k := 0; k < n; k++ {
				sum += a.data[i*n+k] * b.data[k*n+j]
			}
			c.data[i*n+j] += sum
		}
	}
	return nil
}

// MultiplyIKJ computes c = a * b with the i-k-j loop order, which walks
// b and c row-wise. Results are identical to Multiply.
func MultiplyIKJ(c, a, b *Matrix) error {
	if err := checkShapes(c, a, b); err != nil {
		return err
	}
	n := a.n
	c.Zero()
	for i := 0; i < n; i++ {
		crow := c.data[i*n : (i+1)*n]
		for k := 0; k < n; k++ {
			aik := a.data[i*n+k]
			brow := b.data[k*n : (k+1)*n]
			for j := range crow {
				crow[j] += aik * brow[j]
			}
		}
	}
	return nil
}

// Expected returns the corner element of a*b for a[i][j]=i+j and
// b[i][j]=i*j without doing the multiplication:
//
//	c[n-1][n-1] = sum_k (n-1+k) * k*(n-1)
//
// The sum is accumulated in int32 so it wraps exactly like Multiply.
func Expected(n int) int32 {
	last := int32(n - 1)
	var sum int32
	for k := int32(0); k < int32(n); k++ {
		sum += (last + k) * (k * last)
	}
	return sum
}
