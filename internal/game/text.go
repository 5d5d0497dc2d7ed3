package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

type faces struct {
	intro   *text.GoTextFace
	caption *text.GoTextFace
	final   *text.GoTextFace
	button  *text.GoTextFace
}

func loadFaces() (*faces, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &faces{
		intro:   &text.GoTextFace{Source: src, Size: 22},
		caption: &text.GoTextFace{Source: src, Size: 24},
		final:   &text.GoTextFace{Source: src, Size: 44},
		button:  &text.GoTextFace{Source: src, Size: 15},
	}, nil
}

// drawCentered draws s with every line centred on cx, starting at y, scaled
// around the middle of the block.
func drawCentered(dst *ebiten.Image, s string, face *text.GoTextFace, cx, y, scale float64, clr color.Color) {
	if s == "" {
		return
	}
	_, h := text.Measure(s, face, face.Size*1.3)
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.GeoM.Translate(0, -h/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx, y+h/2)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = face.Size * 1.3
	text.Draw(dst, s, face, op)
}
