package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/attnviz/internal/primitive"
)

const (
	BackendPNG     = "png"
	BackendGIF     = "gif"
	BackendSVG     = "svg"
	BackendBraille = "braille"
)

// Target is a renderer that owns output and must be closed.
type Target interface {
	Draw(p primitive.Primitive) error
	Advance(dt time.Duration) error
	Close() error
}

// Backends lists the names accepted by Open.
func Backends() []string {
	return []string{BackendPNG, BackendGIF, BackendSVG, BackendBraille}
}

// BrailleColumns is the canvas width used by the braille backend.
const BrailleColumns = 120

// BrailleSize returns a character grid with the viewport's aspect ratio.
// Braille cells are twice as tall as wide, so dots come out square.
func BrailleSize(vp Viewport, cols int) (int, int) {
	rows := int(float64(cols)*float64(vp.Height)/float64(vp.Width)/2 + 0.5)
	return cols, max(rows, 1)
}

// Open creates the named backend. out is a directory for png and svg and a
// file for gif and braille.
func Open(backend string, vp Viewport, out string) (Target, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	switch backend {
	case BackendPNG:
		sink, err := NewPNGSink(out)
		if err != nil {
			return nil, err
		}
		return rasterTarget(vp, sink)
	case BackendGIF:
		sink, err := CreateGIF(out)
		if err != nil {
			return nil, err
		}
		return rasterTarget(vp, sink)
	case BackendSVG:
		s, err := NewSVG(vp)
		if err != nil {
			return nil, err
		}
		return &svgDir{SVG: s, dir: out}, nil
	case BackendBraille:
		cols, rows := BrailleSize(vp, BrailleColumns)
		return &brailleFile{Braille: NewBraille(cols, rows, vp.UnitsWide), path: out}, nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
}

func rasterTarget(vp Viewport, sink FrameSink) (Target, error) {
	r, err := NewRaster(vp, sink)
	if err != nil {
		sink.Close()
		return nil, err
	}
	return r, nil
}

type svgDir struct {
	*SVG
	dir string
}

func (s *svgDir) Close() error {
	_, err := s.WriteDir(s.dir)
	return err
}

type brailleFile struct {
	*Braille
	path string
}

// Close writes all frames, separated by form feeds.
func (b *brailleFile) Close() error {
	if len(b.frames) == 0 {
		return ErrNoFrames
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(b.path, []byte(strings.Join(b.frames, "\f\n")), 0644)
}
