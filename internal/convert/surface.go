package convert

import (
	"context"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// SurfacePool bounds how many raster render surfaces may be live at once.
// A surface is acquired for the duration of one conversion and released on
// every exit path, so concurrent conversions never draw on a shared target.
type SurfacePool struct {
	sem  chan struct{}
	font *truetype.Font
}

// NewSurfacePool creates a pool admitting at most n concurrent surfaces.
func NewSurfacePool(n int) (*SurfacePool, error) {
	if n <= 0 {
		n = 1
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &SurfacePool{sem: make(chan struct{}, n), font: f}, nil
}

// Acquire blocks until a surface slot is free or the context is done.
func (p *SurfacePool) Acquire(ctx context.Context) (*Surface, error) {
	select {
	case p.sem <- struct{}{}:
		return &Surface{pool: p}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Surface is a scoped raster render target. Callers must Release it exactly
// once; Release after the first call is a no-op.
type Surface struct {
	pool     *SurfacePool
	released bool
}

// Context returns a fresh drawing context of the given pixel size with a
// white background and the pool's font face applied.
func (s *Surface) Context(w, h int, fontSize float64) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(truetype.NewFace(s.pool.font, &truetype.Options{
		Size:    fontSize,
		Hinting: font.HintingFull,
	}))
	return dc
}

// FontFace returns a face of the pool's font at the given size, for callers
// that draw text at more than one size on a single context.
func (s *Surface) FontFace(size float64) font.Face {
	return truetype.NewFace(s.pool.font, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	})
}

// Release returns the slot to the pool.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	<-s.pool.sem
}
