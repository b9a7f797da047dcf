package fft

import (
	"errors"
	"math/rand"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"sound-declick/internal/testutil"
)

func TestTransformGolden(t *testing.T) {
	inRe := []float64{1, 2, 0, -1}
	inIm := []float64{0, -1, -1, 2}

	got, err := Transform(inRe, inIm, Forward)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	want := []float64{
		2, 0,
		-2, -2,
		0, -2,
		4, 4,
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	re, im := Split(got)
	back, err := Transform(re, im, Inverse)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, back, []float64{1, 0, 2, -1, 0, -1, -1, 2}, 1e-12)
}

func TestTransformRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 4, 8, 16, 64, 256, 1024} {
		re := make([]float64, n)
		im := make([]float64, n)
		for i := range re {
			re[i] = rng.Float64()*2 - 1
			im[i] = rng.Float64()*2 - 1
		}

		fwd, err := Transform(re, im, Forward)
		if err != nil {
			t.Fatalf("n=%d forward: %v", n, err)
		}
		fr, fi := Split(fwd)
		inv, err := Transform(fr, fi, Inverse)
		if err != nil {
			t.Fatalf("n=%d inverse: %v", n, err)
		}
		gr, gi := Split(inv)
		testutil.RequireSliceNearlyEqual(t, gr, re, 1e-9)
		testutil.RequireSliceNearlyEqual(t, gi, im, 1e-9)
	}
}

func TestTransformInvalidSize(t *testing.T) {
	for _, n := range []int{0, 3, 5, 6, 12, 100, 1000} {
		_, err := Transform(make([]float64, n), make([]float64, n), Forward)
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("n=%d: err = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestTransformLengthMismatch(t *testing.T) {
	_, err := Transform(make([]float64, 4), make([]float64, 8), Forward)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	re := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	im := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	reCopy := append([]float64(nil), re...)
	imCopy := append([]float64(nil), im...)

	if _, err := Transform(re, im, Forward); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, re, reCopy, 0)
	testutil.RequireSliceNearlyEqual(t, im, imCopy, 0)
}

func TestWorkspaceReuse(t *testing.T) {
	ws := NewWorkspace(8)
	if ws.Size() != 8 {
		t.Fatalf("Size() = %d, want 8", ws.Size())
	}

	a := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	b := []float64{0, 1, 0, -1, 0, 1, 0, -1}
	zero := make([]float64, 8)

	first, err := ws.Transform(a, zero, Forward)
	if err != nil {
		t.Fatal(err)
	}
	firstCopy := append([]float64(nil), first...)

	if _, err := ws.Transform(b, zero, Forward); err != nil {
		t.Fatal(err)
	}
	again, err := ws.Transform(a, zero, Forward)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, again, firstCopy, 0)

	alloc, err := Transform(a, zero, Forward)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, alloc, firstCopy, 0)

	if _, err := ws.Transform(make([]float64, 16), make([]float64, 16), Forward); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("size mismatch err = %v, want ErrInvalidSize", err)
	}
}

func TestTransformMatchesReferenceLibraries(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{2, 8, 32, 512} {
		re := make([]float64, n)
		im := make([]float64, n)
		seq := make([]complex128, n)
		for i := range re {
			re[i] = rng.Float64()*2 - 1
			im[i] = rng.Float64()*2 - 1
			seq[i] = complex(re[i], im[i])
		}

		got, err := Transform(re, im, Forward)
		if err != nil {
			t.Fatal(err)
		}
		gotRe, gotIm := Split(got)

		gonumCoeff := fourier.NewCmplxFFT(n).Coefficients(nil, seq)
		dspCoeff := dspfft.FFT(seq)
		for k := 0; k < n; k++ {
			for name, ref := range map[string]complex128{"gonum": gonumCoeff[k], "go-dsp": dspCoeff[k]} {
				if d := abs(gotRe[k]-real(ref)) + abs(gotIm[k]-imag(ref)); d > 1e-9 {
					t.Fatalf("n=%d k=%d: got (%v,%v), %s (%v,%v)", n, k, gotRe[k], gotIm[k], name, real(ref), imag(ref))
				}
			}
		}

		inv, err := Transform(re, im, Inverse)
		if err != nil {
			t.Fatal(err)
		}
		invRe, invIm := Split(inv)
		dspInv := dspfft.IFFT(seq)
		for k := 0; k < n; k++ {
			if d := abs(invRe[k]-real(dspInv[k])) + abs(invIm[k]-imag(dspInv[k])); d > 1e-9 {
				t.Fatalf("inverse n=%d k=%d: got (%v,%v), go-dsp %v", n, k, invRe[k], invIm[k], dspInv[k])
			}
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-4, false}, {0, false}, {1, true}, {2, true}, {3, false},
		{64, true}, {96, false}, {1 << 20, true},
	}
	for _, tc := range tests {
		if got := IsPowerOfTwo(tc.n); got != tc.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
