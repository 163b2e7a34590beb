package whiteboard

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Autosaver persists the board on a debounced timer: the save fires once the
// board has been quiet for the configured delay, so a burst of mutations
// produces a single write.
type Autosaver struct {
	delay time.Duration
	save  func(blob string) error
	log   zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending []Element
	dirty   bool
}

// NewAutosaver wires a debounced saver around the given persistence function.
func NewAutosaver(delay time.Duration, save func(blob string) error, log zerolog.Logger) *Autosaver {
	return &Autosaver{delay: delay, save: save, log: log}
}

// Notify records the latest board state and (re)arms the debounce timer.
func (a *Autosaver) Notify(elements []Element) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = cloneElements(elements)
	a.dirty = true
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.fire)
	} else {
		a.timer.Reset(a.delay)
	}
}

func (a *Autosaver) fire() {
	if err := a.Flush(); err != nil {
		a.log.Error().Err(err).Msg("board autosave failed")
	}
}

// Flush writes any pending state immediately and disarms the timer.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	elements := a.pending
	a.dirty = false
	a.mu.Unlock()

	blob, err := Encode(elements)
	if err != nil {
		return err
	}
	return a.save(blob)
}

// Stop disarms the timer without saving. Pending state is kept, so a later
// Flush still writes it.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
}
