package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/wavelab/fourierdraw/pkg/draw"
	"github.com/wavelab/fourierdraw/pkg/dsp/fourier"
	"github.com/wavelab/fourierdraw/pkg/dsp/signal"
	"github.com/wavelab/fourierdraw/pkg/studio"
	"github.com/wavelab/fourierdraw/pkg/viz"
)

var (
	renderFrames int
	renderFPS    int
	renderOut    string
	renderCurve  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render animation frames to PNG files without a server",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderFrames, "frames", 120, "number of frames to render")
	renderCmd.Flags().IntVar(&renderFPS, "fps", 30, "fixed timestep frame rate")
	renderCmd.Flags().StringVar(&renderOut, "out", "frames", "output directory")
	renderCmd.Flags().StringVar(&renderCurve, "curve", "", "YAML point file to trace instead of a signal")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if renderFrames <= 0 || renderFPS <= 0 {
		return fmt.Errorf("frames and fps must be positive")
	}
	if err := os.MkdirAll(renderOut, 0o755); err != nil {
		return err
	}

	band := fourier.Band{KMin: cfg.KMin, KMax: cfg.KMax}.Canonical()

	if renderCurve != "" {
		return renderCurveFrames(cfg.Canvas.Width, cfg.Canvas.Height, band)
	}

	kind, err := signal.Parse(cfg.Signal)
	if err != nil {
		return err
	}

	st, err := studio.New(studio.Options{
		Width:        float64(cfg.Canvas.Width),
		Height:       float64(cfg.Canvas.Height),
		TraceLength:  cfg.TraceLength,
		InitialSpeed: cfg.Speed,
	}, studio.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	st.PlayPause(band, kind)
	dt := 1 / float64(renderFPS)

	for i := 0; i < renderFrames; i++ {
		cmds, err := st.OnTick(dt)
		if err != nil {
			return err
		}
		if err := writeFrame(i, cfg.Canvas.Width, cfg.Canvas.Height, cmds); err != nil {
			return err
		}
	}

	log.Info().Int("frames", renderFrames).Str("dir", renderOut).Msg("render complete")
	return nil
}

// pointFile is the YAML shape for traced curves: two parallel lists of
// sample coordinates.
type pointFile struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
}

// renderCurveFrames draws the epicycle chain tracing a 2D curve. Each
// frame advances the chain one stride through the sample sequence and
// shows the partially drawn filtered curve behind it.
func renderCurveFrames(width, height int, band fourier.Band) error {
	contents, err := os.ReadFile(renderCurve)
	if err != nil {
		return err
	}
	var pf pointFile
	if err := yaml.Unmarshal(contents, &pf); err != nil {
		return fmt.Errorf("%s: %w", renderCurve, err)
	}

	curve, err := fourier.NewCurve(pf.X, pf.Y)
	if err != nil {
		return err
	}
	filtered, err := curve.Filtered(band)
	if err != nil {
		return err
	}

	stride := curve.Len() / renderFrames
	if stride < 1 {
		stride = 1
	}

	for i := 0; i < renderFrames; i++ {
		step := (i * stride) % curve.Len()
		chain, err := curve.Chain(band, step)
		if err != nil {
			return err
		}

		p := studio.NewPlotter(float64(width), float64(height))
		p.PreserveAspectRatio()
		p.HideGrid()
		p.SetTitle(fmt.Sprintf("curve  k in [%d, %d]", band.KMin, band.KMax))

		xs := make([]float64, step+1)
		ys := make([]float64, step+1)
		for j := 0; j <= step; j++ {
			xs[j] = filtered[j].X
			ys[j] = filtered[j].Y
		}
		if step > 0 {
			if err := p.Line(xs, ys, draw.TabOrange, 2); err != nil {
				return err
			}
		}
		for j := 1; j < len(chain); j++ {
			p.Arrow(chain[j-1].X, chain[j-1].Y, chain[j].X, chain[j].Y, draw.TabGreen, 1)
		}

		if err := writeFrame(i, width, height, p.Commands()); err != nil {
			return err
		}
	}

	log.Info().Int("frames", renderFrames).Str("dir", renderOut).Msg("curve render complete")
	return nil
}

func writeFrame(i, width, height int, cmds []draw.Command) error {
	img, err := viz.Render(fmt.Sprintf("frame-%04d", i), width, height, cmds)
	if err != nil {
		return err
	}
	name := filepath.Join(renderOut, fmt.Sprintf("frame-%04d.png", i))
	return os.WriteFile(name, img.Data(), 0o644)
}
