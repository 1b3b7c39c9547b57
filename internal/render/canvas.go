package render

import (
	"fmt"
	"io"
	"strings"
)

type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color { return Color{r, g, b, 255} }

// Canvas receives drawing primitives in screen space.
type Canvas interface {
	Line(a, b Point, width float64, c Color)
	Polyline(pts []Point, width float64, c Color)
	Circle(center Point, radius float64, c Color)
}

type ShapeKind int

const (
	ShapeLine ShapeKind = iota
	ShapePolyline
	ShapeCircle
)

// Shape is one recorded primitive. Lines and polylines use Points and Width;
// circles use Points[0] and Radius.
type Shape struct {
	Kind   ShapeKind
	Points []Point
	Width  float64
	Radius float64
	Color  Color
}

// Recorder is a Canvas that keeps a display list of everything drawn on it.
type Recorder struct {
	Shapes []Shape
}

func (r *Recorder) Line(a, b Point, width float64, c Color) {
	r.Shapes = append(r.Shapes, Shape{Kind: ShapeLine, Points: []Point{a, b}, Width: width, Color: c})
}

func (r *Recorder) Polyline(pts []Point, width float64, c Color) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Shapes = append(r.Shapes, Shape{Kind: ShapePolyline, Points: cp, Width: width, Color: c})
}

func (r *Recorder) Circle(center Point, radius float64, c Color) {
	r.Shapes = append(r.Shapes, Shape{Kind: ShapeCircle, Points: []Point{center}, Radius: radius, Color: c})
}

// Reset empties the display list, keeping its storage.
func (r *Recorder) Reset() {
	r.Shapes = r.Shapes[:0]
}

// Count returns the number of recorded shapes of kind k.
func (r *Recorder) Count(k ShapeKind) int {
	n := 0
	for _, s := range r.Shapes {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// WriteSVG replays shapes into an SVG document of the given size.
func WriteSVG(w io.Writer, width, height int, background Color, shapes []Shape) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", svgColor(background))
	for _, s := range shapes {
		switch s.Kind {
		case ShapeLine, ShapePolyline:
			if len(s.Points) < 2 {
				continue
			}
			fmt.Fprintf(&b, `  <polyline points="%s" fill="none" stroke="%s" stroke-opacity="%s" stroke-width="%g" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
				svgPoints(s.Points), svgColor(s.Color), svgOpacity(s.Color), s.Width)
		case ShapeCircle:
			if len(s.Points) == 0 {
				continue
			}
			fmt.Fprintf(&b, `  <circle cx="%.2f" cy="%.2f" r="%g" fill="%s" fill-opacity="%s"/>`+"\n",
				s.Points[0].X, s.Points[0].Y, s.Radius, svgColor(s.Color), svgOpacity(s.Color))
		}
	}
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func svgPoints(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgOpacity(c Color) string {
	return fmt.Sprintf("%.3g", float64(c.A)/255)
}
