package fourier

import (
	"math"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

// ellipseCurve samples a band-limited closed curve: an ellipse carries
// energy only at frequency 1 (and its mirror).
func ellipseCurve(n int) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		t := tau * float64(i) / float64(n)
		xs[i] = 2 * math.Cos(t)
		ys[i] = math.Sin(t)
	}
	return xs, ys
}

// wobbleCurve mixes three harmonics so partial bands are meaningful.
func wobbleCurve(n int) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		t := tau * float64(i) / float64(n)
		xs[i] = math.Cos(t) + 0.4*math.Cos(3*t) + 0.1*math.Sin(7*t)
		ys[i] = math.Sin(t) + 0.4*math.Sin(3*t) + 0.1*math.Cos(7*t)
	}
	return xs, ys
}

func TestNewCurveValidation(t *testing.T) {
	if _, err := NewCurve(nil, nil); err == nil {
		t.Error("empty curve accepted")
	}
	if _, err := NewCurve([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("mismatched axis lengths accepted")
	}
	if _, err := NewCurve([]float64{1, math.NaN()}, []float64{1, 2}); err == nil {
		t.Error("NaN sample accepted")
	}
	if _, err := NewCurve([]float64{1, math.Inf(1)}, []float64{1, 2}); err == nil {
		t.Error("Inf sample accepted")
	}
}

func TestCurveFilteredRoundTrip(t *testing.T) {
	xs, ys := ellipseCurve(64)
	c, err := NewCurve(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.MaxFrequency(); got != 31 {
		t.Fatalf("MaxFrequency() = %d, want 31", got)
	}

	pts, err := c.Filtered(Band{KMin: 0, KMax: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pts {
		if math.Abs(p.X-xs[i]) > 1e-9 || math.Abs(p.Y-ys[i]) > 1e-9 {
			t.Fatalf("sample %d reconstructed as (%v, %v), want (%v, %v)", i, p.X, p.Y, xs[i], ys[i])
		}
	}
}

func TestCurveFilteredMatchesFFTReference(t *testing.T) {
	const n = 64
	xs, ys := wobbleCurve(n)
	c, err := NewCurve(xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	band := Band{KMin: 0, KMax: 3}
	got, err := c.Filtered(band)
	if err != nil {
		t.Fatal(err)
	}

	// Independent reference: zero the out-of-band bins of a go-dsp
	// transform and invert it.
	data := make([]complex128, n)
	for i := range data {
		data[i] = complex(xs[i], ys[i])
	}
	bins := fft.FFT(data)
	for k := range bins {
		mirror := n - k
		inBand := k >= band.KMin && k <= band.KMax
		inMirror := mirror >= 1 && mirror >= band.KMin && mirror <= band.KMax
		if !inBand && !inMirror {
			bins[k] = 0
		}
	}
	want := fft.IFFT(bins)

	for i := range got {
		if math.Abs(got[i].X-real(want[i])) > 1e-9 || math.Abs(got[i].Y-imag(want[i])) > 1e-9 {
			t.Fatalf("sample %d: got (%v, %v), reference (%v, %v)", i, got[i].X, got[i].Y, real(want[i]), imag(want[i]))
		}
	}
}

func TestCurveChainTipMatchesFiltered(t *testing.T) {
	xs, ys := wobbleCurve(48)
	c, err := NewCurve(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	band := Band{KMin: 0, KMax: 7}
	filtered, err := c.Filtered(band)
	if err != nil {
		t.Fatal(err)
	}

	for _, step := range []int{0, 5, 23, 47, 48, -1} {
		chain, err := c.Chain(band, step)
		if err != nil {
			t.Fatal(err)
		}
		if chain[0] != (Point{}) {
			t.Fatalf("chain does not start at origin: %+v", chain[0])
		}
		idx := ((step % 48) + 48) % 48
		tip := chain[len(chain)-1]
		if math.Abs(tip.X-filtered[idx].X) > 1e-9 || math.Abs(tip.Y-filtered[idx].Y) > 1e-9 {
			t.Errorf("step %d: chain tip (%v, %v) != filtered (%v, %v)", step, tip.X, tip.Y, filtered[idx].X, filtered[idx].Y)
		}
	}
}

func TestCurveBandValidation(t *testing.T) {
	xs, ys := ellipseCurve(32)
	c, err := NewCurve(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Filtered(Band{KMin: 0, KMax: 16}); err == nil {
		t.Error("band past MaxFrequency accepted")
	}
	if _, err := c.Filtered(Band{KMin: -1, KMax: 3}); err == nil {
		t.Error("negative curve band accepted")
	}
	// Reversed bounds are canonicalized, not rejected.
	if _, err := c.Filtered(Band{KMin: 3, KMax: 0}); err != nil {
		t.Errorf("reversed band rejected: %v", err)
	}
}
