package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Signal      string  `yaml:"signal"`
	KMin        int     `yaml:"k_min"`
	KMax        int     `yaml:"k_max"`
	Speed       float64 `yaml:"speed"`
	FrameRate   int     `yaml:"frame_rate"`
	TraceLength int     `yaml:"trace_length"`
	Canvas      struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"canvas"`
	VizServer struct {
		Port           int           `yaml:"port"`
		UpdateInterval time.Duration `yaml:"update_interval_ms"`
	} `yaml:"viz_server"`
	InfluxDB struct {
		Host         string `yaml:"host"`
		Organization string `yaml:"organization"`
		Bucket       string `yaml:"bucket"`
	}
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	var cfg Config
	cfg.Signal = "square"
	cfg.KMin = -16
	cfg.KMax = 16
	cfg.Speed = 1
	cfg.FrameRate = 30
	cfg.TraceLength = 256
	cfg.Canvas.Width = 800
	cfg.Canvas.Height = 600
	cfg.VizServer.Port = 8080
	cfg.LogLevel = "info"
	return cfg
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
