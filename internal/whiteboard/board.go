package whiteboard

import "math"

// Handle names one of the four corner resize handles.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

// handleSize is the edge length of the square hit box around each corner.
const handleSize = 8.0

// Board holds the element list in paint order plus its undo history. It is
// not safe for concurrent use; callers serialize access.
//
// Mutations commit one history snapshot each, unless wrapped in
// BeginGesture/EndGesture, in which case the whole gesture commits exactly
// once at EndGesture.
type Board struct {
	elements []Element
	hist     *history
	gesture  bool
}

// NewBoard returns an empty board with the given history capacity.
func NewBoard(historyCapacity int) *Board {
	return &Board{hist: newHistory(historyCapacity, nil)}
}

// Load replaces the board contents and resets the history, so the loaded
// state becomes the undo floor.
func (b *Board) Load(elements []Element) {
	b.elements = cloneElements(elements)
	b.hist = newHistory(b.hist.capacity, b.elements)
	b.gesture = false
}

// Elements returns a deep copy of the element list in paint order.
func (b *Board) Elements() []Element {
	return cloneElements(b.elements)
}

// Len returns the number of elements on the board.
func (b *Board) Len() int { return len(b.elements) }

// BeginGesture suppresses per-mutation commits until EndGesture.
func (b *Board) BeginGesture() { b.gesture = true }

// EndGesture commits the gesture's net effect as one snapshot. Without a
// matching BeginGesture it is a no-op, so stray pointer-up events cannot
// produce duplicate records.
func (b *Board) EndGesture() {
	if !b.gesture {
		return
	}
	b.gesture = false
	b.hist.push(b.elements)
}

func (b *Board) commit() {
	if !b.gesture {
		b.hist.push(b.elements)
	}
}

// Insert appends an element; last inserted paints (and hits) topmost.
func (b *Board) Insert(el Element) {
	b.elements = append(b.elements, el.Clone())
	b.commit()
}

// HitTest returns the topmost element under (x, y).
func (b *Board) HitTest(x, y float64) (Element, bool) {
	for i := len(b.elements) - 1; i >= 0; i-- {
		if b.elements[i].Hit(x, y) {
			return b.elements[i].Clone(), true
		}
	}
	return Element{}, false
}

// HandleAt reports which of the element's corner handles contains (x, y).
func (b *Board) HandleAt(id string, x, y float64) Handle {
	el, ok := b.find(id)
	if !ok {
		return HandleNone
	}
	bounds := el.Bounds()
	corners := []struct {
		h    Handle
		x, y float64
	}{
		{HandleNW, bounds.MinX, bounds.MinY},
		{HandleNE, bounds.MaxX, bounds.MinY},
		{HandleSW, bounds.MinX, bounds.MaxY},
		{HandleSE, bounds.MaxX, bounds.MaxY},
	}
	for _, c := range corners {
		if math.Abs(x-c.x) <= handleSize/2 && math.Abs(y-c.y) <= handleSize/2 {
			return c.h
		}
	}
	return HandleNone
}

// Resize drags the named corner handle to (x, y). Rectangles and images move
// the corner with the opposite corner fixed; circles set the radius to the
// distance from the center. Text and pencil elements do not resize.
func (b *Board) Resize(id string, handle Handle, x, y float64) bool {
	el, ok := b.find(id)
	if !ok || handle == HandleNone {
		return false
	}

	switch el.Type {
	case TypeRect, TypeImage:
		bounds := el.Bounds()
		switch handle {
		case HandleNW:
			bounds.MinX, bounds.MinY = x, y
		case HandleNE:
			bounds.MaxX, bounds.MinY = x, y
		case HandleSW:
			bounds.MinX, bounds.MaxY = x, y
		case HandleSE:
			bounds.MaxX, bounds.MaxY = x, y
		}
		if bounds.MinX > bounds.MaxX {
			bounds.MinX, bounds.MaxX = bounds.MaxX, bounds.MinX
		}
		if bounds.MinY > bounds.MaxY {
			bounds.MinY, bounds.MaxY = bounds.MaxY, bounds.MinY
		}
		el.X, el.Y = bounds.MinX, bounds.MinY
		el.Width, el.Height = bounds.MaxX-bounds.MinX, bounds.MaxY-bounds.MinY
	case TypeCircle:
		el.Radius = math.Hypot(x-el.X, y-el.Y)
	default:
		return false
	}

	b.commit()
	return true
}

// MoveBy translates the element by (dx, dy).
func (b *Board) MoveBy(id string, dx, dy float64) bool {
	el, ok := b.find(id)
	if !ok {
		return false
	}
	el.X += dx
	el.Y += dy
	for i := range el.Points {
		el.Points[i].X += dx
		el.Points[i].Y += dy
	}
	b.commit()
	return true
}

// Delete removes the element with the given id.
func (b *Board) Delete(id string) bool {
	for i, el := range b.elements {
		if el.ID == id {
			b.elements = append(b.elements[:i], b.elements[i+1:]...)
			b.commit()
			return true
		}
	}
	return false
}

// Clear removes every element.
func (b *Board) Clear() {
	if len(b.elements) == 0 {
		return
	}
	b.elements = nil
	b.commit()
}

// Undo steps back one snapshot.
func (b *Board) Undo() bool {
	snapshot, ok := b.hist.undo()
	if !ok {
		return false
	}
	b.elements = snapshot
	return true
}

// Redo steps forward one snapshot.
func (b *Board) Redo() bool {
	snapshot, ok := b.hist.redo()
	if !ok {
		return false
	}
	b.elements = snapshot
	return true
}

// CanUndo reports whether an undo step is available.
func (b *Board) CanUndo() bool { return b.hist.canUndo() }

// CanRedo reports whether a redo step is available.
func (b *Board) CanRedo() bool { return b.hist.canRedo() }

func (b *Board) find(id string) (*Element, bool) {
	for i := range b.elements {
		if b.elements[i].ID == id {
			return &b.elements[i], true
		}
	}
	return nil, false
}
