package studio

import (
	"errors"
	"fmt"
	"math"

	"github.com/wavelab/fourierdraw/pkg/draw"
)

// seriesKind selects how a data series is rendered.
type seriesKind int

const (
	seriesLine seriesKind = iota
	seriesArrow
	seriesCircle
	seriesBars
)

type series struct {
	kind     seriesKind
	xs, ys   []float64
	color    draw.Color
	alpha    float64
	width    float64
	barWidth float64
}

type viewport struct {
	xMin, xMax     float64
	yMin, yMax     float64
	xAuto, yAuto   bool
	preserveAspect bool
}

// Plotter converts data series in mathematical coordinates into a
// batch of draw commands for one canvas. It buffers series until
// Commands is called so that auto-ranging can see all the data.
type Plotter struct {
	width, height float64
	vp            viewport
	xTicks        int
	yTicks        int
	fontSize      float64
	hideAxes      bool
	hideGrid      bool
	title         string
	data          []series
}

func NewPlotter(width, height float64) *Plotter {
	return &Plotter{
		width:    width,
		height:   height,
		vp:       viewport{xAuto: true, yAuto: true},
		xTicks:   10,
		yTicks:   10,
		fontSize: 12,
	}
}

// SetXRange pins the x axis; auto-ranging is disabled for that axis.
func (p *Plotter) SetXRange(min, max float64) {
	p.vp.xMin, p.vp.xMax = min, max
	p.vp.xAuto = false
}

func (p *Plotter) SetYRange(min, max float64) {
	p.vp.yMin, p.vp.yMax = min, max
	p.vp.yAuto = false
}

func (p *Plotter) SetTicks(x, y int) {
	p.xTicks, p.yTicks = x, y
}

func (p *Plotter) HideAxes() { p.hideAxes = true }

func (p *Plotter) HideGrid() { p.hideGrid = true }

func (p *Plotter) SetTitle(title string) { p.title = title }

// PreserveAspectRatio widens the narrower axis so a unit is the same
// number of pixels in x and y. Needed for the epicycle canvas, where
// circles must look like circles.
func (p *Plotter) PreserveAspectRatio() { p.vp.preserveAspect = true }

// Line queues a polyline series.
func (p *Plotter) Line(xs, ys []float64, color draw.Color, width float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("studio: line series length mismatch (%d vs %d)", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return errors.New("studio: line series needs at least two points")
	}
	p.data = append(p.data, series{kind: seriesLine, xs: xs, ys: ys, color: color, alpha: 1, width: width})
	return nil
}

// LineAlpha is Line with an explicit stroke alpha, used for the
// fading trace.
func (p *Plotter) LineAlpha(xs, ys []float64, color draw.Color, width, alpha float64) error {
	if err := p.Line(xs, ys, color, width); err != nil {
		return err
	}
	p.data[len(p.data)-1].alpha = alpha
	return nil
}

// Arrow queues a single vector from (x0,y0) to (x1,y1).
func (p *Plotter) Arrow(x0, y0, x1, y1 float64, color draw.Color, width float64) {
	p.data = append(p.data, series{
		kind: seriesArrow, xs: []float64{x0, x1}, ys: []float64{y0, y1},
		color: color, alpha: 1, width: width,
	})
}

// Circle queues a stroked circle, drawn in math coordinates. Only
// meaningful with PreserveAspectRatio.
func (p *Plotter) Circle(x, y, radius float64, color draw.Color, width, alpha float64) {
	p.data = append(p.data, series{
		kind: seriesCircle, xs: []float64{x}, ys: []float64{y},
		barWidth: radius, color: color, alpha: alpha, width: width,
	})
}

// Bars queues a bar series; bars are centered on each x with the given
// width in math units.
func (p *Plotter) Bars(xs, ys []float64, color draw.Color, barWidth float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("studio: bar series length mismatch (%d vs %d)", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return errors.New("studio: bar series needs at least one point")
	}
	p.data = append(p.data, series{kind: seriesBars, xs: xs, ys: ys, color: color, alpha: 0.8, barWidth: barWidth})
	return nil
}

// Commands finalizes the plot into an ordered command batch: clear,
// grid, axes, then every series in the order it was queued.
func (p *Plotter) Commands() []draw.Command {
	p.autoRange()
	if p.vp.preserveAspect {
		p.fixAspect()
	}

	cmds := []draw.Command{draw.ClearRect(0, 0, p.width, p.height)}
	if !p.hideAxes {
		if !p.hideGrid {
			cmds = p.gridCommands(cmds)
		}
		cmds = p.axesCommands(cmds)
	}
	for _, s := range p.data {
		switch s.kind {
		case seriesLine:
			cmds = p.lineCommands(cmds, s)
		case seriesArrow:
			cmds = p.arrowCommands(cmds, s)
		case seriesCircle:
			cmds = p.circleCommands(cmds, s)
		case seriesBars:
			cmds = p.barCommands(cmds, s)
		}
	}
	if p.title != "" {
		cmds = append(cmds,
			draw.SetFillColor(draw.Black, 1),
			draw.FillText(p.title, p.width/2, p.fontSize*1.5, p.fontSize, draw.AlignCenter),
		)
	}
	return cmds
}

// transform maps math coordinates to pixel coordinates (y flipped).
func (p *Plotter) transform(x, y float64) (float64, float64) {
	px := (x - p.vp.xMin) / (p.vp.xMax - p.vp.xMin) * p.width
	py := p.height - (y-p.vp.yMin)/(p.vp.yMax-p.vp.yMin)*p.height
	return px, py
}

// xScale returns pixels per math unit on the x axis.
func (p *Plotter) xScale() float64 {
	return p.width / (p.vp.xMax - p.vp.xMin)
}

func (p *Plotter) autoRange() {
	if p.vp.xAuto {
		min, max := math.Inf(1), math.Inf(-1)
		for _, s := range p.data {
			for _, x := range s.xs {
				min = math.Min(min, x)
				max = math.Max(max, x)
			}
		}
		if min > max {
			min, max = 0, 1
		}
		pad := 0.1 * (max - min)
		if pad == 0 {
			pad = 1
		}
		p.SetXRange(min-pad, max+pad)
	}
	if p.vp.yAuto {
		min, max := math.Inf(1), math.Inf(-1)
		for _, s := range p.data {
			for _, y := range s.ys {
				min = math.Min(min, y)
				max = math.Max(max, y)
			}
		}
		if min > max {
			min, max = 0, 1
		}
		pad := 0.1 * (max - min)
		if pad == 0 {
			pad = 1
		}
		p.SetYRange(min-pad, max+pad)
	}
}

func (p *Plotter) fixAspect() {
	xRange := p.vp.xMax - p.vp.xMin
	yRange := p.vp.yMax - p.vp.yMin
	aspect := p.width / p.height
	if xRange/yRange > aspect {
		newY := xRange / aspect
		center := (p.vp.yMax + p.vp.yMin) / 2
		p.SetYRange(center-newY/2, center+newY/2)
	} else {
		newX := yRange * aspect
		center := (p.vp.xMax + p.vp.xMin) / 2
		p.SetXRange(center-newX/2, center+newX/2)
	}
}

func (p *Plotter) gridCommands(cmds []draw.Command) []draw.Command {
	cmds = append(cmds, draw.SetStrokeColor(draw.LightGray, 0.3), draw.SetLineWidth(1))
	for i := 0; i <= p.xTicks; i++ {
		x := p.vp.xMin + (p.vp.xMax-p.vp.xMin)*float64(i)/float64(p.xTicks)
		px, _ := p.transform(x, 0)
		cmds = append(cmds, draw.BeginPath(), draw.MoveTo(px, 0), draw.LineTo(px, p.height), draw.Stroke())
	}
	for i := 0; i <= p.yTicks; i++ {
		y := p.vp.yMin + (p.vp.yMax-p.vp.yMin)*float64(i)/float64(p.yTicks)
		_, py := p.transform(0, y)
		cmds = append(cmds, draw.BeginPath(), draw.MoveTo(0, py), draw.LineTo(p.width, py), draw.Stroke())
	}
	return cmds
}

func (p *Plotter) axesCommands(cmds []draw.Command) []draw.Command {
	cmds = append(cmds,
		draw.SetStrokeColor(draw.Black, 1),
		draw.SetLineWidth(2),
		draw.SetFillColor(draw.Black, 1),
	)
	tick := p.fontSize / 2

	// X axis with tick labels, when y=0 is visible.
	if p.vp.yMin <= 0 && p.vp.yMax >= 0 {
		xStart, yAxis := p.transform(p.vp.xMin, 0)
		xEnd, _ := p.transform(p.vp.xMax, 0)
		cmds = append(cmds, draw.BeginPath(), draw.MoveTo(xStart, yAxis), draw.LineTo(xEnd, yAxis), draw.Stroke())

		for i := 0; i <= p.xTicks; i++ {
			x := p.vp.xMin + (p.vp.xMax-p.vp.xMin)*float64(i)/float64(p.xTicks)
			px, _ := p.transform(x, 0)
			cmds = append(cmds,
				draw.BeginPath(),
				draw.MoveTo(px, yAxis-tick/2),
				draw.LineTo(px, yAxis+tick/2),
				draw.Stroke(),
				draw.FillText(tickLabel(x), px, yAxis+p.fontSize+5, p.fontSize, draw.AlignCenter),
			)
		}
	}

	// Y axis, when x=0 is visible. The origin label is skipped to
	// avoid overlapping the x axis labels.
	if p.vp.xMin <= 0 && p.vp.xMax >= 0 {
		xAxis, yStart := p.transform(0, p.vp.yMin)
		_, yEnd := p.transform(0, p.vp.yMax)
		cmds = append(cmds, draw.BeginPath(), draw.MoveTo(xAxis, yStart), draw.LineTo(xAxis, yEnd), draw.Stroke())

		for i := 0; i <= p.yTicks; i++ {
			y := p.vp.yMin + (p.vp.yMax-p.vp.yMin)*float64(i)/float64(p.yTicks)
			if math.Abs(y) < 1e-3 {
				continue
			}
			_, py := p.transform(0, y)
			cmds = append(cmds,
				draw.BeginPath(),
				draw.MoveTo(xAxis-tick/2, py),
				draw.LineTo(xAxis+tick/2, py),
				draw.Stroke(),
				draw.FillText(tickLabel(y), xAxis-10, py+p.fontSize/3, p.fontSize, draw.AlignRight),
			)
		}
	}
	return cmds
}

func (p *Plotter) lineCommands(cmds []draw.Command, s series) []draw.Command {
	cmds = append(cmds,
		draw.SetStrokeColor(s.color, s.alpha),
		draw.SetLineWidth(s.width),
		draw.BeginPath(),
	)
	px, py := p.transform(s.xs[0], s.ys[0])
	cmds = append(cmds, draw.MoveTo(px, py))
	for i := 1; i < len(s.xs); i++ {
		px, py = p.transform(s.xs[i], s.ys[i])
		cmds = append(cmds, draw.LineTo(px, py))
	}
	return append(cmds, draw.Stroke())
}

func (p *Plotter) arrowCommands(cmds []draw.Command, s series) []draw.Command {
	x0, y0 := p.transform(s.xs[0], s.ys[0])
	x1, y1 := p.transform(s.xs[1], s.ys[1])

	cmds = append(cmds,
		draw.SetStrokeColor(s.color, s.alpha),
		draw.SetLineWidth(s.width),
		draw.BeginPath(),
		draw.MoveTo(x0, y0),
		draw.LineTo(x1, y1),
		draw.Stroke(),
	)

	// Arrowhead: two short strokes angled back from the tip.
	angle := math.Atan2(y1-y0, x1-x0)
	length := math.Hypot(x1-x0, y1-y0)
	head := math.Min(4+2*s.width, length*0.4)
	if head <= 0 {
		return cmds
	}
	for _, da := range []float64{math.Pi - 0.4, math.Pi + 0.4} {
		cmds = append(cmds,
			draw.BeginPath(),
			draw.MoveTo(x1, y1),
			draw.LineTo(x1+head*math.Cos(angle+da), y1+head*math.Sin(angle+da)),
			draw.Stroke(),
		)
	}
	return cmds
}

func (p *Plotter) circleCommands(cmds []draw.Command, s series) []draw.Command {
	cx, cy := p.transform(s.xs[0], s.ys[0])
	r := s.barWidth * p.xScale()
	return append(cmds,
		draw.SetStrokeColor(s.color, s.alpha),
		draw.SetLineWidth(s.width),
		draw.BeginPath(),
		draw.Arc(cx, cy, r, 0, 2*math.Pi),
		draw.Stroke(),
	)
}

func (p *Plotter) barCommands(cmds []draw.Command, s series) []draw.Command {
	cmds = append(cmds, draw.SetFillColor(s.color, s.alpha))
	for i := range s.xs {
		x0, y0 := p.transform(s.xs[i]-s.barWidth/2, 0)
		x1, y1 := p.transform(s.xs[i]+s.barWidth/2, s.ys[i])
		cmds = append(cmds, draw.FillRect(x0, y0, x1-x0, y1-y0))
	}
	return cmds
}

func tickLabel(v float64) string {
	if math.Abs(v) < 1e-3 {
		return "0"
	}
	return fmt.Sprintf("%.2f", v)
}
