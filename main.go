package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a YAML config (empty = use defaults)")
	assetsDir := flag.String("assets", "", "Media folder (overrides assets.dir)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	mute := flag.Bool("mute", false, "Run without opening the audio device")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g, err := game.New(cfg, game.Options{Logger: logger, Seed: *seed, Mute: *mute})
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game exited", "error", err)
		g.Close()
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
