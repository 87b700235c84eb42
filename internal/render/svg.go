package render

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/attnviz/internal/geom"
	"github.com/san-kum/attnviz/internal/primitive"
)

// SVG renders every frame to a standalone SVG document.
type SVG struct {
	vp     Viewport
	body   strings.Builder
	docs   []string
	delays []time.Duration
}

func NewSVG(vp Viewport) (*SVG, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	return &SVG{vp: vp}, nil
}

func (s *SVG) Draw(p primitive.Primitive) error {
	st := p.Style()
	switch p.Kind() {
	case primitive.KindArrow:
		from, to := p.Endpoints()
		left, right := arrowHead(from, to, p.TipLength())
		base := left.Lerp(right, 0.5)
		x0, y0 := s.vp.ToPixel(from)
		x1, y1 := s.vp.ToPixel(base)
		s.body.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" %s/>
`, x0, y0, x1, y1, s.stroke(st, p.Opacity())))
		s.body.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" fill-opacity="%.3f"/>
`, s.polygon(to, left, right), st.Stroke.Hex(), p.Opacity()))
	case primitive.KindBox, primitive.KindGridCell:
		c := p.Center()
		w, h := p.Size()
		x, y := s.vp.ToPixel(c)
		pw, ph := s.vp.Length(w), s.vp.Length(h)
		r := s.vp.Length(p.CornerRadius())
		s.body.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" fill-opacity="%.3f" %s/>
`, x-pw/2, y-ph/2, pw, ph, r, st.Fill.Hex(), st.FillOpacity*p.Opacity(), s.stroke(st, p.Opacity())))
	case primitive.KindLabel:
		x, y := s.vp.ToPixel(p.Center())
		s.body.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s" fill-opacity="%.3f">%s</text>
`, x, y, s.vp.Length(p.FontSize()), st.Fill.Hex(), p.Opacity(), html.EscapeString(p.Text())))
	case primitive.KindWavePath:
		pts := p.Points()
		if len(pts) < 2 {
			return nil
		}
		s.body.WriteString(fmt.Sprintf(`<path d="%s" fill="none" %s/>
`, s.polyline(pts), s.stroke(st, p.Opacity())))
	}
	return nil
}

func (s *SVG) stroke(st primitive.Style, opacity float64) string {
	attr := fmt.Sprintf(`stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"`,
		st.Stroke.Hex(), s.vp.Length(st.StrokeWidth), opacity)
	if st.StrokeWidth <= 0 {
		attr = `stroke="none"`
	}
	if st.Dash > 0 {
		d := s.vp.Length(st.Dash)
		attr += fmt.Sprintf(` stroke-dasharray="%.1f %.1f"`, d, d)
	}
	return attr
}

func (s *SVG) polygon(pts ...geom.Point) string {
	return s.polyline(pts) + " Z"
}

func (s *SVG) polyline(pts []geom.Point) string {
	var d strings.Builder
	for i, pt := range pts {
		x, y := s.vp.ToPixel(pt)
		if i == 0 {
			d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	return d.String()
}

// Advance closes the current document.
func (s *SVG) Advance(dt time.Duration) error {
	var doc strings.Builder
	doc.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.vp.Width, s.vp.Height, s.vp.Width, s.vp.Height, s.vp.Background.Hex()))
	doc.WriteString(s.body.String())
	doc.WriteString("</svg>")

	s.docs = append(s.docs, doc.String())
	s.delays = append(s.delays, dt)
	s.body.Reset()
	return nil
}

func (s *SVG) Close() error { return nil }

// Documents returns the finished frames.
func (s *SVG) Documents() []string { return s.docs }

// WriteDir writes each frame as frame_00000.svg, frame_00001.svg and so on.
func (s *SVG) WriteDir(dir string) ([]string, error) {
	if len(s.docs) == 0 {
		return nil, ErrNoFrames
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(s.docs))
	for i, doc := range s.docs {
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame_%05d.svg", i))
		if err := os.WriteFile(paths[i], []byte(doc), 0644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
