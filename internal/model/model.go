package model

// Package model contains the domain types shared across layers (HTTP, service,
// storage). Types here carry no database or framework dependencies.
