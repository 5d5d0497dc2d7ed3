package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const tapRingSize = 8192

// Track is a decoded audio file playing through the speaker:
// decoder -> loop -> resample -> tap -> gain -> ctrl.
type Track struct {
	name   string
	format beep.Format
	file   *os.File
	stream beep.StreamSeekCloser
	tap    *Tap
	gain   *effects.Gain
	ctrl   *beep.Ctrl

	volume  float64
	queued  bool // ctrl is in the speaker mixer
	drained bool // reached the end without looping
}

// OpenTrack decodes the file at path. Tracks start paused at full volume.
func OpenTrack(out *Output, path string, loop bool) (*Track, error) {
	if out == nil {
		return nil, ErrNoOutput
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var src beep.Streamer = stream
	if loop {
		src = beep.Loop(-1, stream)
	}
	if format.SampleRate != out.rate {
		src = beep.Resample(4, format.SampleRate, out.rate, src)
	}

	t := &Track{
		name:   filepath.Base(path),
		format: format,
		file:   f,
		stream: stream,
		volume: 1,
	}
	t.tap = NewTap(src, tapRingSize)
	t.gain = &effects.Gain{Streamer: t.tap}
	t.ctrl = &beep.Ctrl{Streamer: t.gain, Paused: true}
	return t, nil
}

func (t *Track) Name() string { return t.name }

// Snapshot implements Source.
func (t *Track) Snapshot(n int) [][2]float64 { return t.tap.Snapshot(n) }

func (t *Track) Volume() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	return t.volume
}

// SetVolume sets a linear volume; the gain effect scales samples by 1+Gain.
func (t *Track) SetVolume(v float64) {
	v = clamp01(v)
	speaker.Lock()
	t.volume = v
	t.gain.Gain = v - 1
	speaker.Unlock()
}

func (t *Track) Play() error {
	speaker.Lock()
	t.ctrl.Paused = false
	requeue := !t.queued || t.drained
	if requeue {
		t.queued = true
		t.drained = false
	}
	speaker.Unlock()

	if requeue {
		speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
			t.drained = true
		})))
	}
	return nil
}

func (t *Track) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

// Rewind seeks back to the first sample.
func (t *Track) Rewind() error {
	speaker.Lock()
	err := t.stream.Seek(0)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("rewind %s: %w", t.name, err)
	}
	t.tap.Reset()
	return nil
}

// Position is how far into the file playback is.
func (t *Track) Position() time.Duration {
	speaker.Lock()
	n := t.stream.Position()
	speaker.Unlock()
	return t.format.SampleRate.D(n)
}

// Length is the duration of the file.
func (t *Track) Length() time.Duration {
	speaker.Lock()
	n := t.stream.Len()
	speaker.Unlock()
	return t.format.SampleRate.D(n)
}

func (t *Track) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return t.queued && !t.ctrl.Paused && !t.drained
}

// Close pauses the track and releases the file.
func (t *Track) Close() error {
	t.Pause()
	speaker.Lock()
	err := t.stream.Close()
	speaker.Unlock()
	// the decoders close the file themselves; this only covers the ones that don't
	_ = t.file.Close()
	return err
}
