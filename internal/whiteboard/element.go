// Package whiteboard implements the collaborative drawing board: a tagged
// element model with hit-testing, a bounded snapshot history, a compressed
// persistence codec and PNG rendering.
package whiteboard

import "math"

// ElementType discriminates the element union.
type ElementType string

const (
	TypeRect   ElementType = "rect"
	TypeCircle ElementType = "circle"
	TypeText   ElementType = "text"
	TypePencil ElementType = "pencil"
	TypeImage  ElementType = "image"
)

// Text boxes have no measured layout; their hit box is approximated from the
// character count and font size. Pencil strokes get a small padding around
// their point bounds so thin lines stay clickable.
const (
	textWidthFactor  = 0.6
	textHeightFactor = 1.2
	pencilHitPadding = 4.0
)

// Point is one vertex of a freehand stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x, y) lies inside the box.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Element is one drawn item. Which fields are meaningful depends on Type:
// rect/image use X/Y/Width/Height, circle uses X/Y as center plus Radius,
// text uses X/Y/Text/FontSize, pencil uses Points.
type Element struct {
	ID          string      `json:"id"`
	Type        ElementType `json:"type"`
	X           float64     `json:"x,omitempty"`
	Y           float64     `json:"y,omitempty"`
	Width       float64     `json:"width,omitempty"`
	Height      float64     `json:"height,omitempty"`
	Radius      float64     `json:"radius,omitempty"`
	Text        string      `json:"text,omitempty"`
	FontSize    float64     `json:"fontSize,omitempty"`
	Points      []Point     `json:"points,omitempty"`
	Color       string      `json:"color,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty"`
	ImageData   string      `json:"imageData,omitempty"`
}

// Clone returns a deep copy; the point list is never shared.
func (e Element) Clone() Element {
	out := e
	if e.Points != nil {
		out.Points = append([]Point(nil), e.Points...)
	}
	return out
}

// Bounds returns the element's axis-aligned bounding box.
func (e Element) Bounds() Rect {
	switch e.Type {
	case TypeCircle:
		return Rect{
			MinX: e.X - e.Radius, MinY: e.Y - e.Radius,
			MaxX: e.X + e.Radius, MaxY: e.Y + e.Radius,
		}
	case TypeText:
		w := float64(len([]rune(e.Text))) * e.FontSize * textWidthFactor
		h := e.FontSize * textHeightFactor
		return Rect{MinX: e.X, MinY: e.Y, MaxX: e.X + w, MaxY: e.Y + h}
	case TypePencil:
		if len(e.Points) == 0 {
			return Rect{MinX: e.X, MinY: e.Y, MaxX: e.X, MaxY: e.Y}
		}
		b := Rect{
			MinX: e.Points[0].X, MinY: e.Points[0].Y,
			MaxX: e.Points[0].X, MaxY: e.Points[0].Y,
		}
		for _, p := range e.Points[1:] {
			b.MinX = math.Min(b.MinX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MaxY = math.Max(b.MaxY, p.Y)
		}
		b.MinX -= pencilHitPadding
		b.MinY -= pencilHitPadding
		b.MaxX += pencilHitPadding
		b.MaxY += pencilHitPadding
		return b
	default: // rect, image
		return Rect{MinX: e.X, MinY: e.Y, MaxX: e.X + e.Width, MaxY: e.Y + e.Height}
	}
}

// Hit reports whether (x, y) selects the element. Circles test Euclidean
// distance from the center; every other type tests its bounding box.
func (e Element) Hit(x, y float64) bool {
	if e.Type == TypeCircle {
		return math.Hypot(x-e.X, y-e.Y) <= e.Radius
	}
	return e.Bounds().Contains(x, y)
}
