// Package signal defines the predefined periodic waveforms the engine
// can analyze. Every waveform is a pure function of phase with period 2*pi.
package signal

import (
	"fmt"
	"math"
)

const tau = 2 * math.Pi

type Kind int

const (
	Step Kind = iota
	Sine
	Square
	Triangle
)

var kindNames = map[Kind]string{
	Step:     "step",
	Sine:     "sine",
	Square:   "square",
	Triangle: "triangle",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Parse maps a waveform name from config or a control request to its Kind.
func Parse(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown signal kind %q", name)
}

// Kinds lists every predefined waveform in a fixed order.
func Kinds() []Kind {
	return []Kind{Step, Sine, Square, Triangle}
}

// Sample evaluates a waveform at the given phase. The phase is reduced
// modulo 2*pi, so any finite value is valid.
//
//	step:     1 on [0,pi), 0 on [pi,2pi)
//	sine:     sin(phase)
//	square:   +1 on [0,pi), -1 on [pi,2pi)
//	triangle: 4*|phase/2pi - 1/2| - 1, peaks of +1 at 0 and -1 at pi
func Sample(kind Kind, phase float64) float64 {
	phase = math.Mod(phase, tau)
	if phase < 0 {
		phase += tau
	}

	switch kind {
	case Step:
		if phase < math.Pi {
			return 1
		}
		return 0
	case Sine:
		return math.Sin(phase)
	case Square:
		if phase < math.Pi {
			return 1
		}
		return -1
	case Triangle:
		return 4*math.Abs(phase/tau-0.5) - 1
	default:
		return 0
	}
}

// Samples evaluates a waveform at n midpoint phases spread over one
// period. Midpoints keep the sample grid off the waveform
// discontinuities at 0 and pi.
func Samples(kind Kind, n int) (phases, values []float64) {
	phases = make([]float64, n)
	values = make([]float64, n)
	step := tau / float64(n)
	for i := 0; i < n; i++ {
		phases[i] = (float64(i) + 0.5) * step
		values[i] = Sample(kind, phases[i])
	}
	return phases, values
}
