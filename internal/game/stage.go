package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"

	"github.com/iburimskiy/celebration/internal/slides"
)

const (
	imageDelay = 70 * time.Millisecond
	imageFade  = 600 * time.Millisecond
	panTime    = 1600 * time.Millisecond
	finalFade  = 600 * time.Millisecond
)

// stage is the slideshow overlay: the framed image with its slow pan, the
// typed caption and the closing message.
type stage struct {
	media     *media
	faces     *faces
	finalText string
	w, h      float64

	overlay bool
	ref     string
	pan     slides.PanStyle
	shown   bool
	alpha   *ramp
	scale   *ramp
	shift   *ramp

	caption    string
	final      bool
	finalAlpha *ramp
	pulse      float64

	frame *ebiten.Image
}

func newStage(m *media, f *faces, finalText string, w, h int) *stage {
	return &stage{
		media:      m,
		faces:      f,
		finalText:  finalText,
		w:          float64(w),
		h:          float64(h),
		alpha:      still(0),
		scale:      still(1),
		shift:      still(0),
		finalAlpha: still(0),
		pulse:      1,
	}
}

func (s *stage) ShowOverlay(visible bool) {
	s.overlay = visible
	if !visible {
		s.shown = false
		s.ref = ""
		s.caption = ""
		s.alpha = still(0)
	}
}

func (s *stage) HideImage() {
	s.shown = false
	s.alpha = still(0)
}

// ShowImage fades the image in after a short beat and eases it towards the
// pan's resting transform.
func (s *stage) ShowImage(ref string, pan slides.PanStyle) {
	s.ref, s.pan, s.shown = ref, pan, true
	tf := pan.Transform()
	s.alpha = newRamp(0, 1, imageDelay, imageFade, ease.Linear)
	s.scale = newRamp(1, tf.Scale, imageDelay, panTime, ease.OutCubic)
	s.shift = newRamp(0, tf.ShiftX, imageDelay, panTime, ease.OutCubic)
}

func (s *stage) SetCaption(text string) { s.caption = text }

func (s *stage) ShowFinalText(visible bool) {
	s.final = visible
	if visible {
		s.finalAlpha = newRamp(0, 1, 0, finalFade, ease.OutQuad)
	} else {
		s.finalAlpha = still(0)
		s.pulse = 1
	}
}

// SetScale receives the amplitude pulse for the closing message.
func (s *stage) SetScale(v float64) { s.pulse = v }

func (s *stage) Size() (float64, float64) { return s.w, s.h }

func (s *stage) resize(w, h int) {
	s.w, s.h = float64(w), float64(h)
	if s.frame != nil {
		s.frame.Deallocate()
		s.frame = nil
	}
}

func (s *stage) update(dt float32) {
	s.alpha.update(dt)
	s.scale.update(dt)
	s.shift.update(dt)
	s.finalAlpha.update(dt)
}

// frameRect is the image area: 70% of the width, 4:3, a little above centre.
func (s *stage) frameRect() (x, y, w, h float64) {
	w = s.w * 0.7
	h = w * 3 / 4
	if h > s.h*0.7 {
		h = s.h * 0.7
		w = h * 4 / 3
	}
	return (s.w - w) / 2, (s.h-h)/2 - s.h*0.05, w, h
}

// drawBackdrop dims everything behind the overlay.
func (s *stage) drawBackdrop(screen *ebiten.Image) {
	if !s.overlay {
		return
	}
	vector.DrawFilledRect(screen, 0, 0, float32(s.w), float32(s.h), color.RGBA{R: 8, G: 4, B: 16, A: 200}, false)
}

func (s *stage) draw(screen *ebiten.Image) {
	if !s.overlay {
		return
	}
	fx, fy, fw, fh := s.frameRect()
	vector.DrawFilledRect(screen, float32(fx-6), float32(fy-6), float32(fw+12), float32(fh+12), color.RGBA{R: 255, G: 240, B: 248, A: 255}, false)
	vector.DrawFilledRect(screen, float32(fx), float32(fy), float32(fw), float32(fh), color.RGBA{R: 20, G: 16, B: 28, A: 255}, false)

	if s.shown {
		s.drawImage(screen, fx, fy, fw, fh)
	}

	drawCentered(screen, s.caption, s.faces.caption, s.w/2, fy+fh+22, 1, color.White)

	if s.final {
		a := s.finalAlpha.value
		drawCentered(screen, s.finalText, s.faces.final, s.w/2, fy+fh/2-30, s.pulse, withAlpha(color.RGBA{R: 255, G: 215, B: 90, A: 255}, a))
	}
}

// drawImage renders the slide into an offscreen frame so the zoomed image is
// clipped to the frame.
func (s *stage) drawImage(screen *ebiten.Image, fx, fy, fw, fh float64) {
	img, err := s.media.image(s.ref)
	if err != nil {
		vector.StrokeLine(screen, float32(fx), float32(fy), float32(fx+fw), float32(fy+fh), 2, color.RGBA{R: 120, G: 60, B: 80, A: 255}, false)
		vector.StrokeLine(screen, float32(fx+fw), float32(fy), float32(fx), float32(fy+fh), 2, color.RGBA{R: 120, G: 60, B: 80, A: 255}, false)
		ebitenutil.DebugPrintAt(screen, "broken media: "+s.ref, int(fx)+12, int(fy)+12)
		return
	}

	iw, ih := int(fw), int(fh)
	if iw <= 0 || ih <= 0 {
		return
	}
	if s.frame == nil || s.frame.Bounds().Dx() != iw || s.frame.Bounds().Dy() != ih {
		if s.frame != nil {
			s.frame.Deallocate()
		}
		s.frame = ebiten.NewImage(iw, ih)
	}
	s.frame.Clear()

	// cover the frame, then apply the pan
	b := img.Bounds()
	cover := max(fw/float64(b.Dx()), fh/float64(b.Dy()))
	k := cover * s.scale.value
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(fw/2+s.shift.value*fw, fh/2)
	op.Filter = ebiten.FilterLinear
	s.frame.DrawImage(img, op)

	fop := &ebiten.DrawImageOptions{}
	fop.GeoM.Translate(fx, fy)
	fop.ColorScale.ScaleAlpha(float32(s.alpha.value))
	screen.DrawImage(s.frame, fop)
}
