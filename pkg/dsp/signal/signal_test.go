package signal

import (
	"math"
	"testing"
)

func TestSampleValues(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		phase float64
		want  float64
	}{
		{"step high", Step, 1.0, 1},
		{"step low", Step, math.Pi + 1.0, 0},
		{"sine quarter", Sine, math.Pi / 2, 1},
		{"square high", Square, 0.5, 1},
		{"square low", Square, math.Pi + 0.5, -1},
		{"triangle peak", Triangle, 0, 1},
		{"triangle trough", Triangle, math.Pi, -1},
		{"triangle midpoint", Triangle, math.Pi / 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sample(tt.kind, tt.phase); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.kind, tt.phase, got, tt.want)
			}
		})
	}
}

func TestSamplePeriodic(t *testing.T) {
	for _, kind := range Kinds() {
		for _, phase := range []float64{0.1, 1.3, 2.9, 4.2, 6.0} {
			base := Sample(kind, phase)
			for _, shift := range []float64{tau, -tau, 5 * tau, -3 * tau} {
				if got := Sample(kind, phase+shift); math.Abs(got-base) > 1e-9 {
					t.Errorf("%v: Sample(%v+%v) = %v, want %v", kind, phase, shift, got, base)
				}
			}
		}
	}
}

func TestSampleBounded(t *testing.T) {
	for _, kind := range Kinds() {
		for i := 0; i < 1000; i++ {
			phase := float64(i) * tau / 1000
			v := Sample(kind, phase)
			if v < -1 || v > 1 {
				t.Fatalf("%v: Sample(%v) = %v out of [-1, 1]", kind, phase, v)
			}
		}
	}
}

func TestParse(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := Parse(kind.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", kind.String(), err)
		}
		if got != kind {
			t.Errorf("Parse(%q) = %v, want %v", kind.String(), got, kind)
		}
	}
	if _, err := Parse("sawtooth"); err == nil {
		t.Error("Parse(sawtooth) expected error")
	}
}

func TestSamplesMidpointGrid(t *testing.T) {
	phases, values := Samples(Square, 8)
	if len(phases) != 8 || len(values) != 8 {
		t.Fatalf("got %d phases, %d values", len(phases), len(values))
	}
	// Midpoint grid never lands on the discontinuities at 0 and pi.
	for i, p := range phases {
		if p == 0 || p == math.Pi {
			t.Errorf("phase %d = %v lands on a discontinuity", i, p)
		}
		if values[i] != Sample(Square, p) {
			t.Errorf("values[%d] != Sample at same phase", i)
		}
	}
}
