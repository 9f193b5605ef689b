package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

// fft is a radix-2 transform; len(data) must be a power of two.
func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, data)
		return out
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = feven[k] + w*fodd[k]
		out[k+n/2] = feven[k] - w*fodd[k]
	}
	return out
}

// PowerSpectrum returns magnitudes for the non-negative frequency bins of
// samples with the mean removed, zero padded to the next power of two.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	n := 1
	for n < len(samples) {
		n <<= 1
	}
	buf := make([]complex128, n)
	for i, v := range samples {
		buf[i] = complex(v-mean, 0)
	}

	spec := fft(buf)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin of samples taken every dt seconds.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if !(dt > 0) {
		return 0, dynamo.InvalidParameter("dt", dt, "must be positive")
	}
	if len(samples) < 4 {
		return 0, dynamo.InvalidParameter("samples", float64(len(samples)), "need at least 4")
	}

	ps := PowerSpectrum(samples)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}

	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), nil
}
