// Package fft implements a radix-2 complex fast Fourier transform.
//
// Conventions:
//
//   - Forward: X[k] = sum_n x[n] * exp(-2*pi*i*k*n/N), no scaling.
//   - Inverse: x[n] = (1/N) * sum_k X[k] * exp(+2*pi*i*k*n/N).
//
// These match the FOURIER function of common spreadsheet tools, so
// Inverse(Forward(x)) == x up to rounding. Output is interleaved
// (re, im) pairs of length 2N.
package fft

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var (
	// ErrInvalidSize is returned when the transform length is not a
	// power of two.
	ErrInvalidSize = errors.New("fft: transform size must be a power of two")

	// ErrLengthMismatch is returned when the real and imaginary inputs
	// differ in length.
	ErrLengthMismatch = errors.New("fft: real and imaginary inputs must have the same length")
)

// Direction selects the forward or inverse transform.
type Direction int

const (
	Forward Direction = iota
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// ValidateSize returns ErrInvalidSize (wrapped with the offending size)
// unless n is a positive power of two.
func ValidateSize(n int) error {
	if !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	return nil
}

// Transform computes the transform of (re, im) and returns a newly
// allocated interleaved slice of length 2*len(re). The inputs are not
// modified.
func Transform(re, im []float64, dir Direction) ([]float64, error) {
	if len(re) != len(im) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(re), len(im))
	}
	if err := ValidateSize(len(re)); err != nil {
		return nil, err
	}
	return NewWorkspace(len(re)).Transform(re, im, dir)
}

// Workspace holds the scratch buffers for transforms of one size.
//
// A Workspace must not be shared between goroutines. The slice
// returned by Workspace.Transform aliases the workspace and is only
// valid until the next call.
type Workspace struct {
	n   int
	nu  int
	re  []float64
	im  []float64
	out []float64
}

// NewWorkspace allocates scratch storage for transforms of length n.
// n is validated on each Transform call, not here.
func NewWorkspace(n int) *Workspace {
	if n < 0 {
		n = 0
	}
	return &Workspace{
		n:   n,
		nu:  bits.TrailingZeros(uint(n)),
		re:  make([]float64, n),
		im:  make([]float64, n),
		out: make([]float64, 2*n),
	}
}

// Size returns the transform length the workspace was built for.
func (w *Workspace) Size() int { return w.n }

// Transform computes the transform of (re, im) into the workspace's
// output buffer and returns it.
func (w *Workspace) Transform(re, im []float64, dir Direction) ([]float64, error) {
	if len(re) != len(im) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(re), len(im))
	}
	if err := ValidateSize(len(re)); err != nil {
		return nil, err
	}
	if len(re) != w.n {
		return nil, fmt.Errorf("%w: workspace size %d, input size %d", ErrInvalidSize, w.n, len(re))
	}

	n, nu := w.n, w.nu
	xr, xi := w.re, w.im
	copy(xr, re)
	copy(xi, im)

	// Twiddle phase sign. The butterfly below multiplies by
	// exp(-i*arg), so a positive constant yields the forward transform.
	constant := 2 * math.Pi
	if dir == Inverse {
		constant = -constant
	}

	// Butterfly stages. The twiddle for position k in a stage is
	// indexed by the bit-reversal of k's leading bits.
	n2 := n / 2
	nu1 := nu - 1
	for l := 1; l <= nu; l++ {
		for base := 0; base < n; base += 2 * n2 {
			for k := base; k < base+n2; k++ {
				p := reverseBits(k>>uint(nu1), nu)
				arg := constant * float64(p) / float64(n)
				c, s := math.Cos(arg), math.Sin(arg)
				tr := xr[k+n2]*c + xi[k+n2]*s
				ti := xi[k+n2]*c - xr[k+n2]*s
				xr[k+n2] = xr[k] - tr
				xi[k+n2] = xi[k] - ti
				xr[k] += tr
				xi[k] += ti
			}
		}
		nu1--
		n2 /= 2
	}

	// Restore natural order.
	for k := 0; k < n; k++ {
		r := reverseBits(k, nu)
		if r > k {
			xr[k], xr[r] = xr[r], xr[k]
			xi[k], xi[r] = xi[r], xi[k]
		}
	}

	scale := 1.0
	if dir == Inverse {
		scale = 1 / float64(n)
	}
	out := w.out
	for i := 0; i < n; i++ {
		out[2*i] = xr[i] * scale
		out[2*i+1] = xi[i] * scale
	}
	return out, nil
}

// reverseBits reverses the low nu bits of j.
func reverseBits(j, nu int) int {
	if nu == 0 {
		return 0
	}
	return int(bits.Reverse64(uint64(j)) >> uint(64-nu))
}

// Split separates an interleaved (re, im) slice into two slices.
func Split(interleaved []float64) (re, im []float64) {
	n := len(interleaved) / 2
	re = make([]float64, n)
	im = make([]float64, n)
	for i := 0; i < n; i++ {
		re[i] = interleaved[2*i]
		im[i] = interleaved[2*i+1]
	}
	return re, im
}
