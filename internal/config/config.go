// Package config loads the show configuration: window, media assets, timing of
// the slideshow choreography, audio fades and the amplitude pulse.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Button dimensions
	ButtonWidth  = 150
	ButtonHeight = 36
	ButtonGap    = 12
	ButtonX      = 20
	ButtonY      = 60

	// Ambiance
	BulbCount    = 8
	BalloonCount = 8
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed slides.csv
var defaultManifest []byte

// DefaultManifest returns the embedded slide manifest (CSV).
func DefaultManifest() []byte {
	return defaultManifest
}

// Duration is a time.Duration that reads and writes Go duration strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// Config holds everything the show needs at startup.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Assets  AssetsConfig  `yaml:"assets"`
	Slides  SlidesConfig  `yaml:"slides"`
	Audio   AudioConfig   `yaml:"audio"`
	Pulse   PulseConfig   `yaml:"pulse"`
	Caption CaptionConfig `yaml:"caption"`
	Intro   IntroConfig   `yaml:"intro"`
	Effects EffectsConfig `yaml:"effects"`
	Log     LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

type AssetsConfig struct {
	Dir         string `yaml:"dir"`
	Primary     string `yaml:"primary"`   // background track
	Secondary   string `yaml:"secondary"` // slideshow track
	LoopPrimary bool   `yaml:"loop_primary"`
	Manifest    string `yaml:"manifest"` // optional CSV overriding the embedded slides
}

// SlidesConfig holds the slideshow and finale choreography timings.
type SlidesConfig struct {
	Duration      Duration `yaml:"duration"`
	SwapDelay     Duration `yaml:"swap_delay"`
	FinaleDelay   Duration `yaml:"finale_delay"`
	FinaleStop    Duration `yaml:"finale_stop"`
	ConfettiDelay Duration `yaml:"confetti_delay"`
	FinaleBursts  int      `yaml:"finale_bursts"`
	BurstStagger  Duration `yaml:"burst_stagger"`
	BurstSize     int      `yaml:"burst_size"`
	FinaleVolume  float64  `yaml:"finale_volume"`
	FinalText     string   `yaml:"final_text"`
}

type AudioConfig struct {
	SampleRate int      `yaml:"sample_rate"`
	FadeOut    Duration `yaml:"fade_out"`
	FadeIn     Duration `yaml:"fade_in"`
	FadeStop   Duration `yaml:"fade_stop"`
}

// PulseConfig drives the amplitude monitor.
type PulseConfig struct {
	Interval  Duration `yaml:"interval"`
	Bins      int      `yaml:"bins"`
	FFTSize   int      `yaml:"fft_size"`
	GlowBase  float64  `yaml:"glow_base"`
	GlowGain  float64  `yaml:"glow_gain"`
	ScaleGain float64  `yaml:"scale_gain"`
}

type CaptionConfig struct {
	MinDelay   Duration `yaml:"min_delay"`
	MaxDelay   Duration `yaml:"max_delay"`
	TypoChance float64  `yaml:"typo_chance"`
	TypoFix    Duration `yaml:"typo_fix"`
}

type IntroConfig struct {
	Lines      []string `yaml:"lines"`
	StartDelay Duration `yaml:"start_delay"`
	MinDelay   Duration `yaml:"min_delay"`
	MaxDelay   Duration `yaml:"max_delay"`
	LinePause  Duration `yaml:"line_pause"`
}

type EffectsConfig struct {
	Confetti      bool     `yaml:"confetti"`
	InitialBurst  Duration `yaml:"initial_burst"`
	InitialCount  int      `yaml:"initial_count"`
	InitialSpread float64  `yaml:"initial_spread"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would stall or break the choreography.
func (c *Config) Validate() error {
	var errs []error
	positive := map[string]Duration{
		"slides.duration":   c.Slides.Duration,
		"audio.fade_out":    c.Audio.FadeOut,
		"audio.fade_in":     c.Audio.FadeIn,
		"audio.fade_stop":   c.Audio.FadeStop,
		"pulse.interval":    c.Pulse.Interval,
		"caption.min_delay": c.Caption.MinDelay,
		"caption.max_delay": c.Caption.MaxDelay,
	}
	for name, d := range positive {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.Caption.MaxDelay < c.Caption.MinDelay {
		errs = append(errs, errors.New("caption.max_delay must not be below caption.min_delay"))
	}
	if c.Intro.MaxDelay < c.Intro.MinDelay {
		errs = append(errs, errors.New("intro.max_delay must not be below intro.min_delay"))
	}
	if c.Caption.TypoChance < 0 || c.Caption.TypoChance > 1 {
		errs = append(errs, errors.New("caption.typo_chance must be within [0,1]"))
	}
	if c.Slides.FinaleVolume < 0 || c.Slides.FinaleVolume > 1 {
		errs = append(errs, errors.New("slides.finale_volume must be within [0,1]"))
	}
	if c.Pulse.FFTSize < 2*c.Pulse.Bins || c.Pulse.Bins <= 0 {
		errs = append(errs, errors.New("pulse.fft_size must cover at least twice pulse.bins"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, errors.New("audio.sample_rate must be positive"))
	}
	return errors.Join(errs...)
}
