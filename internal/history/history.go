// Package history keeps the outcome of past runs so consecutive runs against
// the same service can be compared.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/moamenhredeen/relcheck/internal/models"
)

// Record is the persisted digest of one run
type Record struct {
	At           time.Time `json:"at"`
	BaseURL      string    `json:"base_url"`
	Commit       string    `json:"commit,omitempty"`
	Score        float64   `json:"score"`
	MaxScore     float64   `json:"max_score"`
	Grade        float64   `json:"grade"`
	Band         string    `json:"band"`
	InitialCount int       `json:"initial_count"`
	FinalCount   int       `json:"final_count"`
	Interrupted  bool      `json:"interrupted,omitempty"`

	// Counted flags are false when the run never read that count
	InitialCounted bool `json:"initial_counted"`
	FinalCounted   bool `json:"final_counted"`
}

// Store persists run records, newest first
type Store interface {
	Record(ctx context.Context, r Record) error
	Recent(ctx context.Context, n int) ([]Record, error)
}

// FromSummary digests a run summary into a record
func FromSummary(s models.RunSummary) Record {
	at := s.StartedAt
	if at.IsZero() {
		at = time.Now()
	}
	return Record{
		At:           at.UTC(),
		BaseURL:      s.BaseURL,
		Commit:       s.Commit,
		Score:        s.Score,
		MaxScore:     s.MaxScore,
		Grade:        s.Grade,
		Band:         s.Band,
		InitialCount: s.InitialCount,
		FinalCount:   s.FinalCount,
		Interrupted:  s.Interrupted,

		InitialCounted: s.InitialCounted,
		FinalCounted:   s.FinalCounted,
	}
}

// Change is a difference between two product counts. It is Known only when
// both counts were read from the service.
type Change struct {
	Value int
	Known bool
}

func (c Change) String() string {
	if !c.Known {
		return "-"
	}
	return fmt.Sprintf("%+d", c.Value)
}

// Delta is the product-count change observed by one run
func (r Record) Delta() Change {
	if !r.InitialCounted || !r.FinalCounted {
		return Change{}
	}
	return Change{Value: r.FinalCount - r.InitialCount, Known: true}
}

// Deltas returns the product-count delta of every record, in the order given
func Deltas(records []Record) []Change {
	out := make([]Change, len(records))
	for i, r := range records {
		out[i] = r.Delta()
	}
	return out
}

// Previous returns the most recent record for baseURL. records must be
// newest first.
func Previous(records []Record, baseURL string) (Record, bool) {
	for _, r := range records {
		if r.BaseURL == baseURL {
			return r, true
		}
	}
	return Record{}, false
}

// BaselineDrift reports, for every record, how far its baseline count moved
// from the final count of the nearest older run against the same server that
// read one. records must be newest first. A non-zero drift means products
// were left behind or removed between runs.
func BaselineDrift(records []Record) []Change {
	out := make([]Change, len(records))
	for i, r := range records {
		if !r.InitialCounted {
			continue
		}
		for _, older := range records[i+1:] {
			if older.BaseURL == r.BaseURL && older.FinalCounted {
				out[i] = Change{Value: r.InitialCount - older.FinalCount, Known: true}
				break
			}
		}
	}
	return out
}
