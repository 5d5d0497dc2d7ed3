package game

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/confetti"
	"github.com/iburimskiy/celebration/internal/particle"
	"github.com/iburimskiy/celebration/internal/slides"
)

func newTestGame(t *testing.T, edit func(*config.Config)) *Game {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Assets.Dir = t.TempDir()
	if edit != nil {
		edit(cfg)
	}
	g, err := New(cfg, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Seed:   7,
		Mute:   true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

// run ticks the game for at least d of show time.
func run(g *Game, d time.Duration) {
	end := g.elapsed + d
	for g.elapsed < end {
		g.tick()
	}
}

func TestNewWithoutAudio(t *testing.T) {
	g := newTestGame(t, nil)
	if g.out != nil || g.primary != nil || g.secondary != nil {
		t.Fatal("muted game opened audio")
	}
	if g.seq.Len() != 8 {
		t.Errorf("slides = %d, want the 8 built-in slides", g.seq.Len())
	}
	if g.seq.Phase() != slides.Idle {
		t.Errorf("phase = %v, want idle", g.seq.Phase())
	}
}

func TestIntroTypesEveryLine(t *testing.T) {
	g := newTestGame(t, nil)
	run(g, 500*time.Millisecond)
	if g.intro.text != "" {
		t.Fatalf("intro started early: %q", g.intro.text)
	}
	run(g, 20*time.Second)
	if !g.intro.finished() {
		t.Fatal("intro not finished")
	}
	want := strings.Join(g.cfg.Intro.Lines, "\n")
	if g.intro.text != want {
		t.Errorf("intro = %q, want %q", g.intro.text, want)
	}
}

func TestInitialConfetti(t *testing.T) {
	g := newTestGame(t, nil)
	run(g, time.Second)
	if n := g.confetti.Len(); n != 0 {
		t.Fatalf("confetti before the first burst: %d", n)
	}
	run(g, 150*time.Millisecond)
	if n := g.confetti.Len(); n != 60 {
		t.Errorf("initial burst = %d flakes, want 60", n)
	}
}

func TestControlsFireworksDefaults(t *testing.T) {
	g := newTestGame(t, nil)
	g.Controls().Fireworks(nil)
	if n := g.fireworks.Len(); n != 120 {
		t.Fatalf("sparks = %d, want 120", n)
	}
	g.fireworks.Each(func(p particle.Particle) {
		if p.X != float64(g.w)/2 || p.Y != 120 {
			t.Fatalf("spark at (%v, %v), want (%v, 120)", p.X, p.Y, float64(g.w)/2)
		}
	})

	g.Controls().Fireworks(&Point{X: 10, Y: 20})
	if n := g.fireworks.Len(); n != 240 {
		t.Errorf("sparks = %d, want 240", n)
	}
}

func TestControlsConfettiDisabled(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.Effects.Confetti = false })
	err := g.Controls().Confetti(confetti.Burst{})
	if !errors.Is(err, confetti.ErrUnavailable) {
		t.Fatalf("Confetti = %v, want ErrUnavailable", err)
	}
	// the wish still fires its sparks
	g.wish()
	if g.fireworks.Len() != wishFireworksCount {
		t.Errorf("wish sparks = %d, want %d", g.fireworks.Len(), wishFireworksCount)
	}
}

func TestStartSlidesWithoutAudio(t *testing.T) {
	g := newTestGame(t, nil)
	if !g.Controls().StartSlides() {
		t.Fatal("StartSlides refused")
	}
	if g.Controls().StartSlides() {
		t.Fatal("second StartSlides accepted")
	}
	if g.seq.Phase() != slides.Running {
		t.Fatalf("phase = %v, want running once the silent fades resolve", g.seq.Phase())
	}
	if !g.stage.overlay {
		t.Fatal("overlay hidden")
	}

	run(g, 100*time.Millisecond)
	if !g.stage.shown || g.stage.ref != "p1.jpg" {
		t.Errorf("stage shows %q (shown=%v), want p1.jpg", g.stage.ref, g.stage.shown)
	}
	if !strings.Contains(g.status(), "Slide 1/8") {
		t.Errorf("status = %q", g.status())
	}
}

func TestSlideshowFinaleAndStop(t *testing.T) {
	g := newTestGame(t, nil)
	g.startSlides()

	run(g, 14*time.Second+50*time.Millisecond)
	if g.seq.Phase() != slides.Finale {
		t.Fatalf("phase = %v, want finale", g.seq.Phase())
	}
	run(g, time.Second)
	if !g.stage.final {
		t.Error("final text not shown")
	}
	if g.fireworks.Len() == 0 {
		t.Error("no finale fireworks")
	}

	run(g, 7*time.Second)
	if g.seq.Phase() != slides.Idle {
		t.Fatalf("phase = %v, want idle after the finale", g.seq.Phase())
	}
	if g.stage.overlay || g.stage.final {
		t.Error("overlay or final text still visible")
	}
	if g.glow.opacity != 0 {
		t.Errorf("glow = %v, want 0 after stop", g.glow.opacity)
	}
}

func TestStartSlidesWithoutSlides(t *testing.T) {
	g := newTestGame(t, nil)
	g.seq = slides.NewSequencer(nil, slides.DefaultTiming(), slides.Deps{Sched: g.sched})
	g.startSlides()
	if !errors.Is(g.lastErr, slides.ErrEmptyManifest) {
		t.Fatalf("lastErr = %v, want ErrEmptyManifest", g.lastErr)
	}
}

func TestToggleMusicWithoutTrack(t *testing.T) {
	g := newTestGame(t, nil)
	g.toggleMusic()
	if g.lastErr == nil {
		t.Fatal("expected an error without a background track")
	}
	if g.musicBtn.label != "Play Music" {
		t.Errorf("label = %q", g.musicBtn.label)
	}
}

func TestLoadMediaFolder(t *testing.T) {
	g := newTestGame(t, nil)
	dir := t.TempDir()
	csv := "file,caption,pan\na.png,first,left\nb.png,second,zoom\n"
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	g.loadMedia(dir)
	if g.seq.Len() != 2 {
		t.Fatalf("slides = %d, want 2", g.seq.Len())
	}
	if g.media.dir != dir {
		t.Errorf("media dir = %q", g.media.dir)
	}
	if got := g.media.path("a.png"); got != filepath.Join(dir, "a.png") {
		t.Errorf("path = %q", got)
	}
}

func TestLoadMediaKeepsSlidesOnBadManifest(t *testing.T) {
	g := newTestGame(t, nil)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte("file,caption,pan\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g.loadMedia(dir)
	if g.seq.Len() != 8 {
		t.Errorf("slides = %d, want the previous 8", g.seq.Len())
	}
}

func TestLayoutResizes(t *testing.T) {
	g := newTestGame(t, nil)
	w, h := g.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Fatalf("Layout = %dx%d", w, h)
	}
	if fw, fh := g.fireworks.Size(); fw != 800 || fh != 600 {
		t.Errorf("fireworks surface = %dx%d", fw, fh)
	}
	if sw, sh := g.stage.Size(); sw != 800 || sh != 600 {
		t.Errorf("stage = %vx%v", sw, sh)
	}
	end := g.buttons[len(g.buttons)-1]
	if end.y+end.h > 600 || end.x+end.w > 800 {
		t.Errorf("End button at (%d,%d) falls outside the window", end.x, end.y)
	}
}

func TestButtonsFollowPhase(t *testing.T) {
	g := newTestGame(t, nil)
	visible := func() []string {
		var out []string
		for _, b := range g.buttons {
			if b.shown() {
				out = append(out, b.label)
			}
		}
		return out
	}
	if got := strings.Join(visible(), ","); got != "Make a Wish,Play Music,Slideshow,Open Media" {
		t.Errorf("idle buttons = %s", got)
	}
	g.startSlides()
	if got := strings.Join(visible(), ","); got != "< Prev,Next >,End" {
		t.Errorf("slideshow buttons = %s", got)
	}
}
