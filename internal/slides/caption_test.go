package slides

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/celebration/internal/schedule"
)

func TestTyperRevealsWholeText(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	cfg.TypoChance = 0
	var shown []string
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(1)), func(v string) { shown = append(shown, v) })

	text := "tu jesa dost"
	done := ty.Start(text)
	if ty.Text() != "t" {
		t.Fatalf("first rune not shown immediately: %q", ty.Text())
	}

	n := len([]rune(text)) - 1
	s.Advance(time.Duration(n)*cfg.MinDelay - time.Millisecond)
	if done.Done() {
		t.Fatal("typer finished faster than the minimum delay allows")
	}
	s.Advance(time.Duration(n+1) * cfg.MaxDelay)
	if !done.Done() {
		t.Fatal("typer not done after the slowest possible time")
	}
	if ty.Text() != text {
		t.Errorf("text = %q, want %q", ty.Text(), text)
	}
	for i := 1; i < len(shown); i++ {
		if len(shown[i]) < len(shown[i-1]) {
			t.Errorf("text shrank without typos: %q -> %q", shown[i-1], shown[i])
		}
	}
}

func TestTyperDelayBounds(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	cfg.TypoChance = 0
	var stamps []time.Duration
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(9)), func(string) { stamps = append(stamps, s.Now()) })
	ty.Start(strings.Repeat("x", 200))
	s.Advance(time.Minute)

	// stamps[0] is the reset to ""
	for i := 2; i < len(stamps); i++ {
		d := stamps[i] - stamps[i-1]
		if d < 28*time.Millisecond || d > 66*time.Millisecond {
			t.Fatalf("delay %v outside [28ms,66ms]", d)
		}
	}
}

func TestTyperTyposAreCorrected(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	cfg.TypoChance = 1
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(2)), nil)

	done := ty.Start("abc")
	if got := []rune(ty.Text()); len(got) != 2 || got[0] != 'a' {
		t.Fatalf("expected 'a' plus one typo, got %q", ty.Text())
	}
	s.Advance(time.Second)
	if !done.Done() || ty.Typing() {
		t.Fatal("typer still busy")
	}
	if ty.Text() != "abc" {
		t.Errorf("text = %q, want %q", ty.Text(), "abc")
	}
}

func TestTyperTypoLastsTypoFix(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	cfg.TypoChance = 1
	cfg.MinDelay = time.Second // keep the next rune out of the way
	cfg.MaxDelay = time.Second
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(2)), nil)

	ty.Start("ab")
	s.Advance(159 * time.Millisecond)
	if len([]rune(ty.Text())) != 2 {
		t.Fatalf("typo removed early: %q", ty.Text())
	}
	s.Advance(time.Millisecond)
	if ty.Text() != "a" {
		t.Errorf("text = %q after 160ms, want %q", ty.Text(), "a")
	}
}

func TestTyperTypoRate(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	typos := 0
	prev := 0
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(42)), func(v string) {
		n := len([]rune(v))
		if n >= prev+2 {
			typos++
		}
		prev = n
	})
	const runes = 5000
	ty.Start(strings.Repeat("a", runes))
	for ty.Typing() {
		s.Advance(10 * time.Millisecond)
	}
	rate := float64(typos) / runes
	if rate < 0.015 || rate > 0.045 {
		t.Errorf("typo rate = %.3f, want about 0.03", rate)
	}
	if ty.Text() != strings.Repeat("a", runes) {
		t.Error("final text differs from input")
	}
}

func TestTyperRestartAbandonsPreviousText(t *testing.T) {
	s := schedule.New()
	cfg := DefaultTyperConfig()
	ty := NewTyper(s, cfg, rand.New(rand.NewSource(5)), nil)
	ty.Start("first caption")
	s.Advance(100 * time.Millisecond)
	ty.Start("second")
	s.Advance(time.Second)
	if ty.Text() != "second" {
		t.Errorf("text = %q, want %q", ty.Text(), "second")
	}
}
