package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	durations := []struct {
		name string
		got  Duration
		want time.Duration
	}{
		{"slides.duration", cfg.Slides.Duration, 2 * time.Second},
		{"slides.swap_delay", cfg.Slides.SwapDelay, 80 * time.Millisecond},
		{"slides.finale_delay", cfg.Slides.FinaleDelay, 700 * time.Millisecond},
		{"slides.finale_stop", cfg.Slides.FinaleStop, 7 * time.Second},
		{"slides.confetti_delay", cfg.Slides.ConfettiDelay, 1300 * time.Millisecond},
		{"audio.fade_out", cfg.Audio.FadeOut, 900 * time.Millisecond},
		{"audio.fade_in", cfg.Audio.FadeIn, 1200 * time.Millisecond},
		{"pulse.interval", cfg.Pulse.Interval, 120 * time.Millisecond},
		{"caption.typo_fix", cfg.Caption.TypoFix, 160 * time.Millisecond},
	}
	for _, tt := range durations {
		if tt.got.D() != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got.D(), tt.want)
		}
	}

	if cfg.Pulse.Bins != 8 || cfg.Pulse.FFTSize != 256 {
		t.Errorf("pulse bins/fft = %d/%d, want 8/256", cfg.Pulse.Bins, cfg.Pulse.FFTSize)
	}
	if cfg.Caption.TypoChance != 0.03 {
		t.Errorf("typo chance = %v, want 0.03", cfg.Caption.TypoChance)
	}
	if cfg.Slides.FinaleBursts != 6 {
		t.Errorf("finale bursts = %d, want 6", cfg.Slides.FinaleBursts)
	}
	if len(cfg.Intro.Lines) != 3 {
		t.Errorf("intro lines = %d, want 3", len(cfg.Intro.Lines))
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	data := "slides:\n  duration: 3s\nassets:\n  dir: /srv/media\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slides.Duration.D() != 3*time.Second {
		t.Errorf("duration = %v, want 3s", cfg.Slides.Duration.D())
	}
	if cfg.Assets.Dir != "/srv/media" {
		t.Errorf("dir = %q", cfg.Assets.Dir)
	}
	// untouched keys keep their defaults
	if cfg.Audio.FadeIn.D() != 1200*time.Millisecond {
		t.Errorf("fade_in = %v, want default 1.2s", cfg.Audio.FadeIn.D())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero duration", "slides:\n  duration: 0s\n", "slides.duration"},
		{"typo chance", "caption:\n  typo_chance: 1.5\n", "typo_chance"},
		{"delay order", "caption:\n  min_delay: 90ms\n  max_delay: 30ms\n", "max_delay"},
		{"bad duration", "audio:\n  fade_in: soon\n", "fade_in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.name != "bad duration" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultManifestEmbedded(t *testing.T) {
	if !strings.HasPrefix(string(DefaultManifest()), "file,caption,pan") {
		t.Fatal("embedded manifest lacks header")
	}
}
