package render

import (
	"fmt"
	"image"
	"image/color"
	colorpalette "image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

// PNGSink writes frames as numbered PNG files in a directory.
type PNGSink struct {
	dir   string
	paths []string
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSink{dir: dir}, nil
}

func (s *PNGSink) WriteFrame(img image.Image, _ time.Duration) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%05d.png", len(s.paths)))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.paths = append(s.paths, path)
	return nil
}

func (s *PNGSink) Close() error { return nil }

// Paths lists the files written so far.
func (s *PNGSink) Paths() []string { return s.paths }

// GIFSink collects paletted frames and encodes one looping GIF on Close.
type GIFSink struct {
	w       io.Writer
	closer  io.Closer
	anim    gif.GIF
	pal     color.Palette
	elapsed time.Duration
	emitted int
	encoded bool
}

// NewGIFSink encodes to w on Close.
func NewGIFSink(w io.Writer) *GIFSink {
	return &GIFSink{w: w, anim: gif.GIF{LoopCount: 0}, pal: colorpalette.Plan9}
}

// CreateGIF opens path and returns a sink that closes it after encoding.
func CreateGIF(path string) (*GIFSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := NewGIFSink(f)
	s.closer = f
	return s, nil
}

func (s *GIFSink) WriteFrame(img image.Image, dt time.Duration) error {
	if s.encoded {
		return ErrClosed
	}
	b := img.Bounds()
	frame := image.NewPaletted(b, s.pal)
	draw.FloydSteinberg.Draw(frame, b, img, b.Min)

	// GIF delays are in hundredths of a second. The running total is
	// rounded to the microsecond so fps-derived frame times like
	// time.Second/30 add up to whole seconds.
	s.elapsed += dt
	total := int(s.elapsed.Round(time.Microsecond) / (10 * time.Millisecond))
	delay := total - s.emitted
	s.emitted = total

	s.anim.Image = append(s.anim.Image, frame)
	s.anim.Delay = append(s.anim.Delay, delay)
	return nil
}

// Len is the number of collected frames.
func (s *GIFSink) Len() int { return len(s.anim.Image) }

func (s *GIFSink) Close() error {
	if s.encoded {
		return nil
	}
	s.encoded = true
	var err error
	if len(s.anim.Image) == 0 {
		err = ErrNoFrames
	} else {
		err = gif.EncodeAll(s.w, &s.anim)
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
