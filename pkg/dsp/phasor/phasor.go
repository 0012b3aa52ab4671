// Package phasor advances the animation clock and lays Fourier
// coefficients out as a chain of rotating vectors. Everything here is
// a pure function of its inputs; the orchestrator owns the state.
package phasor

import (
	"math"

	"github.com/wavelab/fourierdraw/pkg/dsp/fourier"
)

const tau = 2 * math.Pi

const (
	// MaxFrameDelta caps a single tick's elapsed time. A backgrounded
	// host can deliver seconds-long deltas; jumping several periods in
	// one frame tears the trace.
	MaxFrameDelta = 0.1

	// SpeedStep is the multiplier applied per speed-control press.
	SpeedStep = 1.25

	MinSpeed = 1.0 / 32
	MaxSpeed = 32.0

	// wrapThreshold is where the accumulated phase is folded back to
	// [0, 2pi) to stop floating-point drift in very long sessions.
	// Folding removes an exact multiple of 2pi, so nothing moves on
	// screen when it happens.
	wrapThreshold = tau * 1e6
)

// State is the running animation clock.
type State struct {
	Running bool
	Phase   float64
	Speed   float64
}

// Advance returns the state after dt seconds of wall-clock time.
// Non-finite or negative deltas are coerced to zero; oversized deltas
// are clamped to MaxFrameDelta.
func Advance(st State, dt float64) State {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}

	st.Phase += dt * st.Speed
	if st.Phase >= wrapThreshold {
		st.Phase -= tau * math.Floor(st.Phase/tau)
	}
	return st
}

// IncreaseSpeed bumps the speed multiplier one step, saturating at
// MaxSpeed.
func IncreaseSpeed(st State) State {
	st.Speed *= SpeedStep
	if st.Speed > MaxSpeed {
		st.Speed = MaxSpeed
	}
	return st
}

// DecreaseSpeed lowers the speed multiplier one step, saturating at
// MinSpeed.
func DecreaseSpeed(st State) State {
	st.Speed /= SpeedStep
	if st.Speed < MinSpeed {
		st.Speed = MinSpeed
	}
	return st
}

// Chain returns the cumulative tip positions of the coefficients'
// rotating vectors at the given phase, tip to tail from the origin.
// Point i is the sum of terms 0..i-1; the X of the final point equals
// fourier.Reconstruct over the same coefficients, term for term, since
// both walk the slice in the same order with the same arithmetic.
func Chain(coeffs []fourier.Coefficient, phase float64) []fourier.Point {
	pts := make([]fourier.Point, len(coeffs)+1)
	var x, y float64
	for i, c := range coeffs {
		s, cos := math.Sincos(float64(c.K) * phase)
		x += c.Re*cos - c.Im*s
		y += c.Re*s + c.Im*cos
		pts[i+1] = fourier.Point{X: x, Y: y}
	}
	return pts
}
