package viz

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/wavelab/fourierdraw/pkg/draw"
)

var fontCache = font.NewCache(liberation.Collection())

// monoAdvance is the Liberation Mono glyph advance in em units, used
// to size text for center/right alignment without a layout engine.
const monoAdvance = 0.6

// ImageSink executes draw commands onto an in-memory PNG canvas. It is
// the concrete renderer behind every logical canvas. Draw commands use
// top-left-origin pixel coordinates; vg uses bottom-left, so y is
// flipped on the way in (this mirrors arc direction, which only full
// circles pass through here).
type ImageSink struct {
	width, height float64
	canvas        *vgimg.Canvas

	path      vg.Path
	stroke    color.Color
	fill      color.Color
	lineWidth vg.Length
	bg        color.Color
}

func NewImageSink(width, height int) *ImageSink {
	bg := color.White
	return &ImageSink{
		width:  float64(width),
		height: float64(height),
		canvas: vgimg.NewWith(
			vgimg.UseWH(vg.Length(width), vg.Length(height)),
			vgimg.UseDPI(72),
			vgimg.UseBackgroundColor(bg),
		),
		stroke:    color.Black,
		fill:      color.Black,
		lineWidth: 1,
		bg:        bg,
	}
}

// point flips a command coordinate into vg space.
func (s *ImageSink) point(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(s.height - y)}
}

// Execute runs the batch in order. Unknown ops are an error; command
// batches come from our own core, so one indicates a version skew bug.
func (s *ImageSink) Execute(cmds []draw.Command) error {
	for _, c := range cmds {
		switch c.Op {
		case draw.OpBeginPath:
			s.path = s.path[:0]
		case draw.OpMoveTo:
			s.path.Move(s.point(c.X, c.Y))
		case draw.OpLineTo:
			s.path.Line(s.point(c.X, c.Y))
		case draw.OpArc:
			s.arc(c)
		case draw.OpStroke:
			s.canvas.SetColor(s.stroke)
			s.canvas.SetLineWidth(s.lineWidth)
			s.canvas.Stroke(s.path)
		case draw.OpFill:
			s.canvas.SetColor(s.fill)
			s.canvas.Fill(s.path)
		case draw.OpSetStrokeColor:
			s.stroke = commandColor(c)
		case draw.OpSetFillColor:
			s.fill = commandColor(c)
		case draw.OpSetLineWidth:
			s.lineWidth = vg.Length(c.Width)
		case draw.OpFillText:
			s.fillText(c)
		case draw.OpClearRect:
			s.fillRect(c.X, c.Y, c.W, c.H, s.bg)
		case draw.OpFillRect:
			s.fillRect(c.X, c.Y, c.W, c.H, s.fill)
		default:
			return fmt.Errorf("viz: unknown draw op %v", c.Op)
		}
	}
	return nil
}

func (s *ImageSink) arc(c draw.Command) {
	center := s.point(c.X, c.Y)
	r := vg.Length(c.Radius)
	// Flipped y negates the angles.
	start := -c.StartAngle
	sweep := -(c.EndAngle - c.StartAngle)
	if len(s.path) == 0 {
		// A 2D canvas arc with no current point starts at the arc's
		// first point; vg needs the explicit move.
		s.path.Move(vg.Point{
			X: center.X + r*vg.Length(math.Cos(start)),
			Y: center.Y + r*vg.Length(math.Sin(start)),
		})
	}
	s.path.Arc(center, r, start, sweep)
}

func (s *ImageSink) fillRect(x, y, w, h float64, col color.Color) {
	// Rects may carry negative extents (math-space corners); the path
	// doesn't care.
	var p vg.Path
	p.Move(s.point(x, y))
	p.Line(s.point(x+w, y))
	p.Line(s.point(x+w, y+h))
	p.Line(s.point(x, y+h))
	p.Close()
	s.canvas.SetColor(col)
	s.canvas.Fill(p)
}

func (s *ImageSink) fillText(c draw.Command) {
	size := c.FontSize
	if size <= 0 {
		size = 12
	}
	face := fontCache.Lookup(font.Font{Typeface: "Liberation", Variant: "Mono"}, vg.Length(size))

	x := c.X
	width := monoAdvance * size * float64(len([]rune(c.Text)))
	switch c.Align {
	case draw.AlignCenter:
		x -= width / 2
	case draw.AlignRight:
		x -= width
	}

	s.canvas.SetColor(s.fill)
	s.canvas.FillString(face, s.point(x, c.Y), c.Text)
}

// Image finalizes the canvas into a named PNG container.
func (s *ImageSink) Image(name string) (*ImageContainer, error) {
	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: s.canvas}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &ImageContainer{name: name, data: buf.Bytes()}, nil
}

// Render executes a batch on a fresh canvas and returns the PNG.
func Render(name string, width, height int, cmds []draw.Command) (*ImageContainer, error) {
	sink := NewImageSink(width, height)
	if err := sink.Execute(cmds); err != nil {
		return nil, err
	}
	return sink.Image(name)
}

func commandColor(c draw.Command) color.Color {
	a := c.Alpha
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a * 255)}
}
