package audio

import (
	"testing"

	"github.com/faiface/beep"
)

func counter() beep.Streamer {
	n := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			n++
			samples[i] = [2]float64{n, -n}
		}
		return len(samples), true
	})
}

func TestTapSnapshotChronological(t *testing.T) {
	tap := NewTap(counter(), 8)
	buf := make([][2]float64, 5)
	tap.Stream(buf)
	tap.Stream(buf) // 10 samples through an 8-slot ring

	got := tap.Snapshot(4)
	for i, want := range []float64{7, 8, 9, 10} {
		if got[i][0] != want {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i][0], want)
		}
	}
	if n := len(tap.Snapshot(100)); n != 8 {
		t.Errorf("oversized snapshot len = %d, want 8", n)
	}
}

func TestTapReset(t *testing.T) {
	tap := NewTap(counter(), 4)
	tap.Stream(make([][2]float64, 3))
	tap.Reset()
	for _, s := range tap.Snapshot(4) {
		if s != [2]float64{} {
			t.Fatalf("sample %v survived reset", s)
		}
	}
}
