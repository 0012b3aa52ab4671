package fourier

import (
	"math"
	"testing"

	"github.com/wavelab/fourierdraw/pkg/dsp/signal"
)

func coefficient(t *testing.T, coeffs []Coefficient, k int) Coefficient {
	t.Helper()
	for _, c := range coeffs {
		if c.K == k {
			return c
		}
	}
	t.Fatalf("no coefficient for k=%d", k)
	return Coefficient{}
}

func TestDCTerm(t *testing.T) {
	tests := []struct {
		kind signal.Kind
		mean float64
	}{
		{signal.Step, 0.5},
		{signal.Sine, 0},
		{signal.Square, 0},
		{signal.Triangle, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			coeffs := Coefficients(tt.kind, Band{KMin: -4, KMax: 4})
			dc := coefficient(t, coeffs, 0)
			if dc.Im != 0 {
				t.Errorf("DC imaginary part = %v, want exactly 0", dc.Im)
			}
			if math.Abs(dc.Re-tt.mean) > 1e-9 {
				t.Errorf("DC real part = %v, want mean %v", dc.Re, tt.mean)
			}
		})
	}
}

func TestSineCoefficients(t *testing.T) {
	coeffs := Coefficients(signal.Sine, Band{KMin: -2, KMax: 2})

	// sin(phi) = (e^{i phi} - e^{-i phi}) / 2i, so c_1 = -i/2, c_-1 = i/2.
	c1 := coefficient(t, coeffs, 1)
	if math.Abs(c1.Re) > 1e-9 || math.Abs(c1.Im+0.5) > 1e-9 {
		t.Errorf("c_1 = (%v, %v), want (0, -0.5)", c1.Re, c1.Im)
	}
	cm1 := coefficient(t, coeffs, -1)
	if math.Abs(cm1.Re) > 1e-9 || math.Abs(cm1.Im-0.5) > 1e-9 {
		t.Errorf("c_-1 = (%v, %v), want (0, 0.5)", cm1.Re, cm1.Im)
	}
	c2 := coefficient(t, coeffs, 2)
	if math.Hypot(c2.Re, c2.Im) > 1e-9 {
		t.Errorf("c_2 = (%v, %v), want 0", c2.Re, c2.Im)
	}
}

func TestSquareOddHarmonics(t *testing.T) {
	coeffs := Coefficients(signal.Square, Band{KMin: 1, KMax: 9})
	spec := Spectrum(coeffs)

	var lastOdd float64 = math.Inf(1)
	for _, e := range spec {
		if e.K%2 == 0 {
			if e.Power > 1e-6 {
				t.Errorf("even harmonic k=%d has power %v, want ~0", e.K, e.Power)
			}
			continue
		}
		// Odd harmonics: |c_k| = 2/(pi*k), so power = 4/(pi^2 k^2).
		want := 4 / (math.Pi * math.Pi * float64(e.K) * float64(e.K))
		if math.Abs(e.Power-want) > 1e-4 {
			t.Errorf("odd harmonic k=%d power = %v, want %v", e.K, e.Power, want)
		}
		if e.Power >= lastOdd {
			t.Errorf("odd harmonic power did not decrease at k=%d", e.K)
		}
		lastOdd = e.Power
	}
}

func TestSpectrumSymmetry(t *testing.T) {
	for _, kind := range signal.Kinds() {
		coeffs := Coefficients(kind, Band{KMin: -16, KMax: 16})
		spec := Spectrum(coeffs)
		byK := make(map[int]float64, len(spec))
		for _, e := range spec {
			byK[e.K] = e.Power
		}
		for k := 1; k <= 16; k++ {
			if diff := math.Abs(byK[k] - byK[-k]); diff > 1e-12 {
				t.Errorf("%v: power(%d)=%v power(%d)=%v differ by %v", kind, k, byK[k], -k, byK[-k], diff)
			}
		}
	}
}

func TestSpectrumPreservesOrder(t *testing.T) {
	coeffs := Coefficients(signal.Triangle, Band{KMin: -3, KMax: 3})
	spec := Spectrum(coeffs)
	if len(spec) != len(coeffs) {
		t.Fatalf("spectrum has %d entries, want %d", len(spec), len(coeffs))
	}
	for i := range spec {
		if spec[i].K != coeffs[i].K {
			t.Errorf("entry %d has k=%d, want %d", i, spec[i].K, coeffs[i].K)
		}
	}
}

// rmsError measures the reconstruction residual on the quadrature grid.
func rmsError(kind signal.Kind, coeffs []Coefficient) float64 {
	const n = 2048
	var sum float64
	for i := 0; i < n; i++ {
		phi := (float64(i) + 0.5) * tau / n
		d := Reconstruct(coeffs, phi) - signal.Sample(kind, phi)
		sum += d * d
	}
	return math.Sqrt(sum / n)
}

func TestRoundTrip(t *testing.T) {
	// Widest-band tolerances. The discontinuous waveforms keep a Gibbs
	// residual near their jumps no matter how wide the band gets, so
	// their bound is loose.
	tolerances := map[signal.Kind]float64{
		signal.Sine:     1e-6,
		signal.Triangle: 1e-3,
		signal.Square:   0.1,
		signal.Step:     0.1,
	}

	for _, kind := range signal.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			prev := math.Inf(1)
			var last float64
			for _, k := range []int{8, 16, 32, 64} {
				coeffs := Coefficients(kind, Band{KMin: -k, KMax: k})
				last = rmsError(kind, coeffs)
				if last > prev+1e-9 {
					t.Errorf("RMS error grew from %v to %v when widening to k=%d", prev, last, k)
				}
				prev = last
			}
			if tol := tolerances[kind]; last > tol {
				t.Errorf("RMS error %v at k=64 exceeds tolerance %v", last, tol)
			}
		})
	}
}

func TestSingleTermBand(t *testing.T) {
	// A one-term band must still reconstruct to a valid sinusoid.
	coeffs := Coefficients(signal.Sine, Band{KMin: 1, KMax: 1})
	if len(coeffs) != 1 {
		t.Fatalf("got %d coefficients, want 1", len(coeffs))
	}
	// Re(c_1 e^{i phi}) with c_1 = -i/2 is sin(phi)/2.
	for _, phi := range []float64{0, 0.7, math.Pi / 2, 3.1} {
		want := math.Sin(phi) / 2
		if got := Reconstruct(coeffs, phi); math.Abs(got-want) > 1e-9 {
			t.Errorf("Reconstruct at %v = %v, want %v", phi, got, want)
		}
	}

	dcOnly := Coefficients(signal.Step, Band{KMin: 0, KMax: 0})
	if got := Reconstruct(dcOnly, 1.23); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("DC-only reconstruction = %v, want 0.5", got)
	}
}

func TestReconstructEmpty(t *testing.T) {
	if got := Reconstruct(nil, 1.0); got != 0 {
		t.Errorf("Reconstruct(nil) = %v, want 0", got)
	}
}

func TestBandCanonical(t *testing.T) {
	reversed := Coefficients(signal.Square, Band{KMin: 5, KMax: -5})
	ordered := Coefficients(signal.Square, Band{KMin: -5, KMax: 5})
	if len(reversed) != len(ordered) {
		t.Fatalf("reversed band yields %d coefficients, ordered %d", len(reversed), len(ordered))
	}
	for i := range ordered {
		if reversed[i] != ordered[i] {
			t.Errorf("coefficient %d differs between reversed and ordered bands", i)
		}
	}

	b := Band{KMin: 3, KMax: -2}.Canonical()
	if b.KMin != -2 || b.KMax != 3 {
		t.Errorf("Canonical() = %+v, want {-2 3}", b)
	}
	if got := (Band{KMin: -4, KMax: 4}).Count(); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}
}
