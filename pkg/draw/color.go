package draw

// Color is a plain RGB triple; alpha travels separately on the command.
type Color struct {
	R, G, B uint8
}

// The matplotlib tab10 palette, which the plots borrow for series
// colors, plus a few neutrals.
var (
	TabBlue   = Color{R: 31, G: 119, B: 180}
	TabOrange = Color{R: 255, G: 127, B: 14}
	TabGreen  = Color{R: 44, G: 160, B: 44}
	TabRed    = Color{R: 214, G: 39, B: 40}
	TabPurple = Color{R: 148, G: 103, B: 189}

	Black     = Color{}
	White     = Color{R: 255, G: 255, B: 255}
	LightGray = Color{R: 211, G: 211, B: 211}
	Gray      = Color{R: 128, G: 128, B: 128}
)
