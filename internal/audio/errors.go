package audio

import "errors"

var (
	// ErrNoChannel is returned when an operation needs a track that was never loaded.
	ErrNoChannel = errors.New("audio: channel not available")
	// ErrNoOutput is returned when the audio device could not be opened.
	ErrNoOutput = errors.New("audio: output not available")
	// ErrAnalysisUnavailable is returned when the amplitude monitor has nothing to analyse or drive.
	ErrAnalysisUnavailable = errors.New("audio: analysis not available")
	// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
	ErrUnsupportedFormat = errors.New("audio: unsupported file type")
)
