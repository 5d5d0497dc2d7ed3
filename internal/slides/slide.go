// Package slides drives the captioned slideshow: it cross-fades the music,
// walks through the slides on a timer and plays the finale.
package slides

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

var (
	ErrEmptyManifest = errors.New("slides: manifest has no slides")
	ErrUnknownPan    = errors.New("slides: unknown pan style")
)

// PanStyle selects the camera move applied when a slide appears.
type PanStyle int

const (
	PanCenter PanStyle = iota
	PanLeft
	PanRight
	PanZoom
)

func (p PanStyle) String() string {
	switch p {
	case PanLeft:
		return "left"
	case PanRight:
		return "right"
	case PanZoom:
		return "zoom"
	default:
		return "center"
	}
}

func ParsePan(s string) (PanStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return PanLeft, nil
	case "right":
		return PanRight, nil
	case "zoom":
		return PanZoom, nil
	case "center", "":
		return PanCenter, nil
	}
	return PanCenter, fmt.Errorf("%w: %q", ErrUnknownPan, s)
}

func (p *PanStyle) UnmarshalCSV(s string) error {
	v, err := ParsePan(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p PanStyle) MarshalCSV() (string, error) { return p.String(), nil }

// Transform is where the image settles: a uniform scale and a horizontal
// shift as a fraction of the image width.
type Transform struct {
	Scale  float64
	ShiftX float64
}

func (p PanStyle) Transform() Transform {
	switch p {
	case PanLeft:
		return Transform{Scale: 1.08, ShiftX: -0.06}
	case PanRight:
		return Transform{Scale: 1.08, ShiftX: 0.06}
	case PanZoom:
		return Transform{Scale: 1.12}
	default:
		return Transform{Scale: 1.06}
	}
}

// Slide is one image with its caption.
type Slide struct {
	Image   string   `csv:"file"`
	Caption string   `csv:"caption"`
	Pan     PanStyle `csv:"pan"`
}

// LoadManifest parses a CSV manifest with the columns file, caption, pan.
func LoadManifest(data []byte) ([]Slide, error) {
	var slides []Slide
	if err := gocsv.UnmarshalBytes(data, &slides); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return checkManifest(slides)
}

func LoadManifestFile(path string) ([]Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var slides []Slide
	if err := gocsv.UnmarshalFile(f, &slides); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return checkManifest(slides)
}

func checkManifest(slides []Slide) ([]Slide, error) {
	if len(slides) == 0 {
		return nil, ErrEmptyManifest
	}
	for i, s := range slides {
		if strings.TrimSpace(s.Image) == "" {
			return nil, fmt.Errorf("slide %d: missing file", i+1)
		}
	}
	return slides, nil
}
