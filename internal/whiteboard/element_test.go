package whiteboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementHit(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		x, y float64
		want bool
	}{
		{
			name: "rect inside",
			el:   Element{Type: TypeRect, X: 10, Y: 10, Width: 40, Height: 20},
			x:    30, y: 20, want: true,
		},
		{
			name: "rect outside",
			el:   Element{Type: TypeRect, X: 10, Y: 10, Width: 40, Height: 20},
			x:    51, y: 20, want: false,
		},
		{
			name: "circle inside radius",
			el:   Element{Type: TypeCircle, X: 50, Y: 50, Radius: 10},
			x:    57, y: 57, want: true, // hypot(7,7) ~ 9.9
		},
		{
			name: "circle corner of bounding box misses",
			el:   Element{Type: TypeCircle, X: 50, Y: 50, Radius: 10},
			x:    59, y: 59, want: false,
		},
		{
			name: "circle on axis hits",
			el:   Element{Type: TypeCircle, X: 50, Y: 50, Radius: 10},
			x:    60, y: 50, want: true,
		},
		{
			name: "text box from char count and font size",
			el:   Element{Type: TypeText, X: 0, Y: 0, Text: "hello", FontSize: 20},
			// width = 5 * 20 * 0.6 = 60, height = 24
			x: 59, y: 23, want: true,
		},
		{
			name: "text box right edge",
			el:   Element{Type: TypeText, X: 0, Y: 0, Text: "hello", FontSize: 20},
			x:    61, y: 10, want: false,
		},
		{
			name: "pencil padded bounds",
			el: Element{Type: TypePencil, Points: []Point{
				{X: 10, Y: 10}, {X: 30, Y: 40},
			}},
			x: 7, y: 7, want: true, // within the 4-unit padding
		},
		{
			name: "pencil outside padding",
			el: Element{Type: TypePencil, Points: []Point{
				{X: 10, Y: 10}, {X: 30, Y: 40},
			}},
			x: 5, y: 10, want: false,
		},
		{
			name: "image uses rect bounds",
			el:   Element{Type: TypeImage, X: 0, Y: 0, Width: 100, Height: 50},
			x:    100, y: 50, want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.el.Hit(tt.x, tt.y))
		})
	}
}

func TestElementHitCircleInside(t *testing.T) {
	el := Element{Type: TypeCircle, X: 50, Y: 50, Radius: 10}
	assert.True(t, el.Hit(55, 55)) // hypot(5,5) ~ 7.1
}

func TestElementCloneDeepCopiesPoints(t *testing.T) {
	el := Element{Type: TypePencil, Points: []Point{{X: 1, Y: 2}}}
	cp := el.Clone()
	cp.Points[0].X = 99
	assert.Equal(t, 1.0, el.Points[0].X)
}

func TestPencilBoundsEmpty(t *testing.T) {
	el := Element{Type: TypePencil, X: 5, Y: 5}
	b := el.Bounds()
	assert.Equal(t, Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}, b)
}
