package slides

import (
	"math/rand"
	"strings"
	"time"

	"github.com/iburimskiy/celebration/internal/schedule"
)

type TyperConfig struct {
	MinDelay   time.Duration
	MaxDelay   time.Duration
	TypoChance float64
	TypoFix    time.Duration
}

func DefaultTyperConfig() TyperConfig {
	return TyperConfig{
		MinDelay:   28 * time.Millisecond,
		MaxDelay:   66 * time.Millisecond,
		TypoChance: 0.03,
		TypoFix:    160 * time.Millisecond,
	}
}

type cell struct {
	r    rune
	typo int // non-zero for a wrong letter waiting to be removed
}

// Typer reveals text one rune at a time. Now and then it slips in a wrong
// letter and takes it back a moment later.
type Typer struct {
	sched *schedule.Scheduler
	cfg   TyperConfig
	rng   *rand.Rand
	out   func(string)

	cells  []cell
	step   schedule.Handle
	fixes  map[int]schedule.Handle
	nextID int
	done   *schedule.Signal
}

// NewTyper reports the visible text to out after every change.
func NewTyper(s *schedule.Scheduler, cfg TyperConfig, rng *rand.Rand, out func(string)) *Typer {
	if out == nil {
		out = func(string) {}
	}
	return &Typer{sched: s, cfg: cfg, rng: rng, out: out, fixes: make(map[int]schedule.Handle)}
}

// Start clears the text and begins typing s, abandoning any text still being
// typed. The signal resolves once the last rune is on screen.
func (t *Typer) Start(s string) *schedule.Signal {
	t.Cancel()
	t.cells = t.cells[:0]
	t.out("")
	t.done = schedule.NewSignal()

	runes := []rune(s)
	i := 0
	var step func()
	step = func() {
		t.step = 0
		if i >= len(runes) {
			t.done.Resolve()
			return
		}
		t.cells = append(t.cells, cell{r: runes[i]})
		i++
		if t.rng.Float64() < t.cfg.TypoChance {
			t.typo()
		}
		t.out(t.Text())
		t.step = t.sched.After(t.delay(), step)
	}
	step()
	return t.done
}

func (t *Typer) typo() {
	t.nextID++
	id := t.nextID
	t.cells = append(t.cells, cell{r: rune('a' + t.rng.Intn(26)), typo: id})
	t.fixes[id] = t.sched.After(t.cfg.TypoFix, func() {
		delete(t.fixes, id)
		for k, c := range t.cells {
			if c.typo == id {
				t.cells = append(t.cells[:k], t.cells[k+1:]...)
				break
			}
		}
		t.out(t.Text())
	})
}

func (t *Typer) delay() time.Duration {
	span := t.cfg.MaxDelay - t.cfg.MinDelay
	if span <= 0 {
		return t.cfg.MinDelay
	}
	return t.cfg.MinDelay + time.Duration(t.rng.Int63n(int64(span)+1))
}

// Cancel stops typing and leaves the text as it is, minus pending typos.
func (t *Typer) Cancel() {
	t.sched.Cancel(t.step)
	t.step = 0
	for id, h := range t.fixes {
		t.sched.Cancel(h)
		delete(t.fixes, id)
	}
	live := t.cells[:0]
	for _, c := range t.cells {
		if c.typo == 0 {
			live = append(live, c)
		}
	}
	t.cells = live
}

// Typing reports whether runes or corrections are still pending.
func (t *Typer) Typing() bool { return t.step != 0 || len(t.fixes) > 0 }

// Text returns what is currently visible.
func (t *Typer) Text() string {
	var b strings.Builder
	for _, c := range t.cells {
		b.WriteRune(c.r)
	}
	return b.String()
}
