package game

import (
	"math/rand"
	"strings"

	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/schedule"
	"github.com/iburimskiy/celebration/internal/slides"
)

// intro types the greeting lines one after another.
type intro struct {
	sched *schedule.Scheduler
	cfg   config.IntroConfig
	typer *slides.Typer

	done []string
	text string
	next schedule.Handle
}

func newIntro(s *schedule.Scheduler, cfg config.IntroConfig, rng *rand.Rand) *intro {
	in := &intro{sched: s, cfg: cfg}
	in.typer = slides.NewTyper(s, slides.TyperConfig{
		MinDelay: cfg.MinDelay.D(),
		MaxDelay: cfg.MaxDelay.D(),
	}, rng, func(line string) {
		in.text = strings.Join(append(in.done[:len(in.done):len(in.done)], line), "\n")
	})
	return in
}

func (in *intro) start() {
	in.next = in.sched.After(in.cfg.StartDelay.D(), func() { in.line(0) })
}

func (in *intro) line(i int) {
	if i >= len(in.cfg.Lines) {
		in.next = 0
		return
	}
	s := in.cfg.Lines[i]
	in.typer.Start(s).Then(func() {
		in.done = append(in.done, s)
		in.next = in.sched.After(in.cfg.LinePause.D(), func() { in.line(i + 1) })
	})
}

// finished reports whether every line is on screen.
func (in *intro) finished() bool {
	return len(in.done) == len(in.cfg.Lines)
}

func (in *intro) stop() {
	in.sched.Cancel(in.next)
	in.typer.Cancel()
}
