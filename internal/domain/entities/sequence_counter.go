package entities

import "time"

// SequenceCounter holds the last issued sequence of one numbering period.
//
// Storage model:
//   - PK: id (e.g. cotizaciones-2025-09)
//
// Counters are created on first use of a period and never deleted.
type SequenceCounter struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}
