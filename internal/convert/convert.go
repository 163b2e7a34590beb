package convert

import (
	"context"
	"errors"
	"fmt"
)

// Package convert implements the per-pair conversion routines and the
// dispatch table that selects exactly one routine for a (source, target)
// MIME-type pair.

// ErrNoRoute is returned when no converter is registered for the requested
// (source, target) pair.
var ErrNoRoute = errors.New("conversion path not implemented")

// Input is the material handed to a converter: the raw bytes plus the
// declared source type and the requested target type.
type Input struct {
	Data   []byte
	Source string
	Target string
	// Filename is the original upload name; informational only.
	Filename string
}

// Result is an immutable conversion artifact.
type Result struct {
	Data []byte
	// MIME is the type actually produced.
	MIME string
}

// Converter transforms bytes of one format into bytes of another. Routines
// are independent and share no state; any temporary raster resources must be
// released before returning on every exit path.
type Converter interface {
	Convert(ctx context.Context, in Input) (*Result, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, in Input) (*Result, error)

func (f ConverterFunc) Convert(ctx context.Context, in Input) (*Result, error) {
	return f(ctx, in)
}

type pairKey struct {
	source string
	target string
}

// Registry maps (source, target) pairs to converters. Pairs are mutually
// exclusive by construction: registering the same pair twice panics, so the
// table cannot hide an ambiguous double match.
type Registry struct {
	routes map[pairKey]Converter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[pairKey]Converter)}
}

// Register adds a converter for the pair. Duplicate registration is a
// programming error and panics at construction time.
func (r *Registry) Register(source, target string, c Converter) {
	key := pairKey{source: source, target: target}
	if _, ok := r.routes[key]; ok {
		panic(fmt.Sprintf("convert: duplicate route %s -> %s", source, target))
	}
	r.routes[key] = c
}

// Lookup returns the converter for the pair, if one is registered.
func (r *Registry) Lookup(source, target string) (Converter, bool) {
	c, ok := r.routes[pairKey{source: source, target: target}]
	return c, ok
}

// Pairs returns every registered (source, target) pair.
func (r *Registry) Pairs() map[string][]string {
	out := make(map[string][]string)
	for k := range r.routes {
		out[k.source] = append(out[k.source], k.target)
	}
	return out
}

// Convert dispatches to the single converter registered for the pair.
// A miss returns ErrNoRoute before any converter side effect.
func (r *Registry) Convert(ctx context.Context, in Input) (*Result, error) {
	c, ok := r.Lookup(in.Source, in.Target)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoRoute, in.Source, in.Target)
	}
	return c.Convert(ctx, in)
}
