package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wavelab/fourierdraw/pkg/dsp/fourier"
	dspsignal "github.com/wavelab/fourierdraw/pkg/dsp/signal"
	"github.com/wavelab/fourierdraw/pkg/studio"
	"github.com/wavelab/fourierdraw/pkg/util"
	"github.com/wavelab/fourierdraw/pkg/viz"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the animation with the HTTP viewer",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kind, err := dspsignal.Parse(cfg.Signal)
	if err != nil {
		return err
	}
	band := fourier.Band{KMin: cfg.KMin, KMax: cfg.KMax}.Canonical()

	var writeAPI api.WriteAPI = &util.NoopWriteAPI{}
	if cfg.InfluxDB.Host != "" {
		writeAPI = influxdb2.NewClient(cfg.InfluxDB.Host, "").WriteAPI(cfg.InfluxDB.Organization, cfg.InfluxDB.Bucket)
	}

	st, err := studio.New(studio.Options{
		Width:        float64(cfg.Canvas.Width),
		Height:       float64(cfg.Canvas.Height),
		TraceLength:  cfg.TraceLength,
		InitialSpeed: cfg.Speed,
	}, studio.WithLogger(log.Logger), studio.WithMetrics(writeAPI))
	if err != nil {
		return err
	}

	server := viz.NewServer(cfg.VizServer.Port, cfg.VizServer.UpdateInterval)
	server.SetLogger(log.Logger)

	session := viz.NewSession(st, server, viz.SessionOptions{
		Width:     cfg.Canvas.Width,
		Height:    cfg.Canvas.Height,
		FrameRate: cfg.FrameRate,
		Band:      band,
		Kind:      kind,
	})
	session.SetLogger(log.Logger)

	log.Info().
		Str("signal", kind.String()).
		Int("k_min", band.KMin).
		Int("k_max", band.KMax).
		Int("port", cfg.VizServer.Port).
		Msg("starting viewer")

	eg, ctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	eg.Go(func() error {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Stop(shutdownCtx)
		return nil
	})

	eg.Go(func() error {
		return server.Run(ctx)
	})

	eg.Go(func() error {
		return session.Run(ctx)
	})

	if err := eg.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
