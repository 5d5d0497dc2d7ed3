package game

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/celebration/internal/audio"
	"github.com/iburimskiy/celebration/internal/config"
	"github.com/iburimskiy/celebration/internal/slides"
)

// manifestName is the slide list looked up in a media folder.
const manifestName = "slides.csv"

// media resolves slide images and audio files relative to one folder.
// Images are decoded on first use and cached; a file that fails to load is
// remembered so it is reported once.
type media struct {
	dir    string
	logger *slog.Logger

	images map[string]*ebiten.Image
	failed map[string]error
}

func newMedia(dir string, logger *slog.Logger) *media {
	return &media{
		dir:    dir,
		logger: logger,
		images: make(map[string]*ebiten.Image),
		failed: make(map[string]error),
	}
}

func (m *media) path(ref string) string {
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(m.dir, ref)
}

// image returns the decoded image for ref, or an error when it cannot be
// shown.
func (m *media) image(ref string) (*ebiten.Image, error) {
	if img, ok := m.images[ref]; ok {
		return img, nil
	}
	if err, ok := m.failed[ref]; ok {
		return nil, err
	}
	img, _, err := ebitenutil.NewImageFromFile(m.path(ref))
	if err != nil {
		err = fmt.Errorf("load image %s: %w", ref, err)
		m.failed[ref] = err
		m.logger.Warn("slide image unavailable", "error", err)
		return nil, err
	}
	m.images[ref] = img
	return img, nil
}

// setDir switches folders and drops every cached image.
func (m *media) setDir(dir string) {
	for _, img := range m.images {
		img.Deallocate()
	}
	m.dir = dir
	m.images = make(map[string]*ebiten.Image)
	m.failed = make(map[string]error)
}

// track opens an audio file of the folder. A missing file or output leaves
// the channel absent and is only logged.
func (m *media) track(out *audio.Output, name string, loop bool) *audio.Track {
	if name == "" {
		return nil
	}
	t, err := audio.OpenTrack(out, m.path(name), loop)
	if err != nil {
		m.logger.Warn("audio track unavailable", "file", name, "error", err)
		return nil
	}
	m.logger.Debug("audio track opened", "file", t.Name(), "length", formatDuration(t.Length()))
	return t
}

// manifest reads the slide list: an explicit file first, then slides.csv in
// the folder, then the built-in list.
func (m *media) manifest(explicit string) ([]slides.Slide, error) {
	if explicit != "" {
		return slides.LoadManifestFile(m.path(explicit))
	}
	local := m.path(manifestName)
	if _, err := os.Stat(local); err == nil {
		return slides.LoadManifestFile(local)
	}
	return slides.LoadManifest(config.DefaultManifest())
}

// chooseFolder asks the user for a media folder. An empty result with a nil
// error means the dialog was dismissed.
func chooseFolder(start string) (string, error) {
	dir, err := zenity.SelectFile(
		zenity.Title("Choose a media folder"),
		zenity.Directory(),
		zenity.Filename(start),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return dir, nil
}

// channel hides a nil track behind a nil interface.
func channel(t *audio.Track) audio.Channel {
	if t == nil {
		return nil
	}
	return t
}
