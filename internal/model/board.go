package model

import "time"

// Board is a persisted whiteboard. Data holds the encoded element snapshot
// (base64 of a gzip-compressed JSON array); the whiteboard package owns the
// encoding. The format carries no schema version field, so shape changes are a
// known compatibility risk.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Data      string    `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
