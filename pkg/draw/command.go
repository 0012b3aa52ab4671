// Package draw defines the renderer-agnostic drawing commands the core
// emits. Commands carry only numbers and strings; a Sink turns them
// into pixels. Coordinates are in pixel space with the origin at the
// top left and y growing downward, matching the 2D canvas convention.
package draw

import "fmt"

type Op int

const (
	OpBeginPath Op = iota
	OpMoveTo
	OpLineTo
	OpArc
	OpStroke
	OpFill
	OpSetStrokeColor
	OpSetFillColor
	OpSetLineWidth
	OpFillText
	OpClearRect
	OpFillRect
)

var opNames = map[Op]string{
	OpBeginPath:      "BeginPath",
	OpMoveTo:         "MoveTo",
	OpLineTo:         "LineTo",
	OpArc:            "Arc",
	OpStroke:         "Stroke",
	OpFill:           "Fill",
	OpSetStrokeColor: "SetStrokeColor",
	OpSetFillColor:   "SetFillColor",
	OpSetLineWidth:   "SetLineWidth",
	OpFillText:       "FillText",
	OpClearRect:      "ClearRect",
	OpFillRect:       "FillRect",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Command is one drawing instruction. Only the fields relevant to its
// Op are meaningful. A batch of commands is produced per plot call,
// executed in order by a Sink, and discarded.
type Command struct {
	Op Op

	X, Y float64
	W, H float64

	Radius     float64
	StartAngle float64
	EndAngle   float64

	R, G, B uint8
	Alpha   float64

	Width float64

	Text     string
	FontSize float64
	Align    Align
}

// Sink executes a command batch against a concrete 2D surface.
// Command order is semantically significant (BeginPath before LineTo,
// color before Stroke) and must be preserved.
type Sink interface {
	Execute(cmds []Command) error
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func BeginPath() Command { return Command{Op: OpBeginPath} }

func MoveTo(x, y float64) Command { return Command{Op: OpMoveTo, X: x, Y: y} }

func LineTo(x, y float64) Command { return Command{Op: OpLineTo, X: x, Y: y} }

func Arc(x, y, radius, startAngle, endAngle float64) Command {
	return Command{Op: OpArc, X: x, Y: y, Radius: radius, StartAngle: startAngle, EndAngle: endAngle}
}

func Stroke() Command { return Command{Op: OpStroke} }

func Fill() Command { return Command{Op: OpFill} }

func SetStrokeColor(c Color, alpha float64) Command {
	return Command{Op: OpSetStrokeColor, R: c.R, G: c.G, B: c.B, Alpha: alpha}
}

func SetFillColor(c Color, alpha float64) Command {
	return Command{Op: OpSetFillColor, R: c.R, G: c.G, B: c.B, Alpha: alpha}
}

func SetLineWidth(w float64) Command { return Command{Op: OpSetLineWidth, Width: w} }

func FillText(text string, x, y, size float64, align Align) Command {
	return Command{Op: OpFillText, Text: text, X: x, Y: y, FontSize: size, Align: align}
}

func ClearRect(x, y, w, h float64) Command {
	return Command{Op: OpClearRect, X: x, Y: y, W: w, H: h}
}

func FillRect(x, y, w, h float64) Command {
	return Command{Op: OpFillRect, X: x, Y: y, W: w, H: h}
}
