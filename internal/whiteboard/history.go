package whiteboard

// history is a bounded stack of full element-list snapshots with a cursor.
// One snapshot per committed gesture; nothing is merged or coalesced. When
// the capacity is exceeded the oldest snapshot is dropped.
type history struct {
	snapshots [][]Element
	cursor    int
	capacity  int
}

func newHistory(capacity int, initial []Element) *history {
	if capacity < 2 {
		capacity = 2
	}
	return &history{
		snapshots: [][]Element{cloneElements(initial)},
		cursor:    0,
		capacity:  capacity,
	}
}

// push records a new snapshot, discarding any redo tail past the cursor.
func (h *history) push(elements []Element) {
	h.snapshots = append(h.snapshots[:h.cursor+1], cloneElements(elements))
	if len(h.snapshots) > h.capacity {
		h.snapshots = h.snapshots[1:]
	}
	h.cursor = len(h.snapshots) - 1
}

func (h *history) canUndo() bool { return h.cursor > 0 }
func (h *history) canRedo() bool { return h.cursor < len(h.snapshots)-1 }

// undo steps the cursor back and returns that snapshot.
func (h *history) undo() ([]Element, bool) {
	if !h.canUndo() {
		return nil, false
	}
	h.cursor--
	return cloneElements(h.snapshots[h.cursor]), true
}

// redo steps the cursor forward and returns that snapshot.
func (h *history) redo() ([]Element, bool) {
	if !h.canRedo() {
		return nil, false
	}
	h.cursor++
	return cloneElements(h.snapshots[h.cursor]), true
}

func cloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}
