// Package id issues run identifiers for the journal.
package id

import (
	cryptoRand "crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out ULIDs that sort by creation time, including within
// the same millisecond.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator uses crypto/rand entropy and the wall clock.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(cryptoRand.Reader, 0),
		now:     time.Now,
	}
}

// NewRun returns a fresh run id.
func (g *Generator) NewRun() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("new run id: %w", err)
	}
	return id.String(), nil
}

var std = NewGenerator()

// New returns a run id from the package generator.
func New() (string, error) { return std.NewRun() }

// Time extracts the creation time encoded in a run id.
func Time(runID string) (time.Time, error) {
	id, err := ulid.ParseStrict(runID)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad run id %q: %w", runID, err)
	}
	return ulid.Time(id.Time()).UTC(), nil
}

// Valid reports whether s is a well formed run id.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
