package fourier

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	gfourier "gonum.org/v1/gonum/dsp/fourier"
)

// ErrBandOutOfRange reports a curve frequency band that falls outside
// [0, MaxFrequency].
var ErrBandOutOfRange = errors.New("fourier: band out of range for curve")

// Point is a position in the drawing plane.
type Point struct {
	X float64
	Y float64
}

// Curve holds the dense DFT of a sampled 2D closed curve. The samples
// are folded into complex values z = x + iy so that one transform
// carries both axes; for a length-N transform the index N-k plays the
// role of the negative frequency -k.
type Curve struct {
	points []Point
	coeffs []complex128
	n      int
}

// NewCurve transforms a sampled closed curve. The two slices must have
// the same nonzero length and contain only finite values.
func NewCurve(xs, ys []float64) (*Curve, error) {
	if len(xs) == 0 {
		return nil, errors.New("fourier: empty curve")
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("fourier: curve axis lengths differ (%d vs %d)", len(xs), len(ys))
	}

	n := len(xs)
	points := make([]Point, n)
	data := make([]complex128, n)
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			return nil, fmt.Errorf("fourier: curve sample %d is not finite", i)
		}
		points[i] = Point{X: xs[i], Y: ys[i]}
		data[i] = complex(xs[i], ys[i])
	}

	fft := gfourier.NewCmplxFFT(n)
	return &Curve{
		points: points,
		coeffs: fft.Coefficients(nil, data),
		n:      n,
	}, nil
}

// Len returns the number of samples in the curve.
func (c *Curve) Len() int { return c.n }

// Original returns the curve samples the transform was built from.
func (c *Curve) Original() []Point { return c.points }

// MaxFrequency returns the largest usable absolute frequency index.
func (c *Curve) MaxFrequency() int { return c.n/2 - 1 }

// checkBand validates a curve band: indices are absolute (0-based) and
// must fit under MaxFrequency.
func (c *Curve) checkBand(band Band) (Band, error) {
	band = band.Canonical()
	if band.KMin < 0 || band.KMax > c.MaxFrequency() {
		return band, fmt.Errorf("%w: [%d, %d] with max %d", ErrBandOutOfRange, band.KMin, band.KMax, c.MaxFrequency())
	}
	return band, nil
}

// Filtered reconstructs every curve sample using only the frequencies
// in the band. Each index k > 0 contributes its mirror N-k as well, so
// the result stays real in both axes.
func (c *Curve) Filtered(band Band) ([]Point, error) {
	band, err := c.checkBand(band)
	if err != nil {
		return nil, err
	}

	out := make([]Point, c.n)
	for i := 0; i < c.n; i++ {
		z := c.partialAt(band, i)
		out[i] = Point{X: real(z), Y: imag(z)}
	}
	return out, nil
}

// Chain returns the cumulative epicycle chain for sample step i: the
// tip positions of the band's rotating vectors laid tip to tail,
// starting at the origin. The final point is the filtered curve
// position at that step.
func (c *Curve) Chain(band Band, step int) ([]Point, error) {
	band, err := c.checkBand(band)
	if err != nil {
		return nil, err
	}
	step = ((step % c.n) + c.n) % c.n

	chain := make([]Point, 0, 2*band.Count()+1)
	var tip complex128
	chain = append(chain, Point{})
	for k := band.KMin; k <= band.KMax; k++ {
		tip += c.term(k, step)
		chain = append(chain, Point{X: real(tip), Y: imag(tip)})
		if k > 0 {
			tip += c.term(c.n-k, step)
			chain = append(chain, Point{X: real(tip), Y: imag(tip)})
		}
	}
	return chain, nil
}

// partialAt sums the band's contribution at one sample index, mirror
// frequencies included.
func (c *Curve) partialAt(band Band, i int) complex128 {
	var z complex128
	for k := band.KMin; k <= band.KMax; k++ {
		z += c.term(k, i)
		if k > 0 {
			z += c.term(c.n-k, i)
		}
	}
	return z
}

// term is the rotating vector of raw transform index k at sample step i.
func (c *Curve) term(k, i int) complex128 {
	angle := tau * float64(k) * float64(i) / float64(c.n)
	return c.coeffs[k] * cmplx.Exp(complex(0, angle)) / complex(float64(c.n), 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
