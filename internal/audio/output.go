package audio

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the opened audio device. Every track is resampled to its rate and
// mixed by the speaker.
type Output struct {
	rate beep.SampleRate
}

// NewOutput opens the speaker at sampleRate with a 50ms buffer.
func NewOutput(sampleRate int) (*Output, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return &Output{rate: sr}, nil
}

func (o *Output) SampleRate() beep.SampleRate { return o.rate }

// Close stops everything that is playing.
func (o *Output) Close() {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
}
