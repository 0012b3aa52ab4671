package fourier

// SpectrumEntry is the energy at a single frequency index.
type SpectrumEntry struct {
	K     int
	Power float64
}

// Spectrum maps coefficients one-to-one to magnitude-squared entries,
// preserving order.
func Spectrum(coeffs []Coefficient) []SpectrumEntry {
	out := make([]SpectrumEntry, len(coeffs))
	for i, c := range coeffs {
		out[i] = SpectrumEntry{K: c.K, Power: c.Re*c.Re + c.Im*c.Im}
	}
	return out
}
