package memory

import (
	"context"
	"fmt"
	"sync"

	ports "casa/internal/sheets"
)

// Exporter keeps the latest digest per property in memory.
type Exporter struct {
	mu      sync.Mutex
	latest  map[string]ports.Digest
	exports int
}

var _ ports.DeadlineExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{latest: make(map[string]ports.Digest)}
}

// ExportDeadlines stores the digest and returns a synthetic reference.
func (e *Exporter) ExportDeadlines(_ context.Context, d ports.Digest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latest[d.PropertyID] = d
	e.exports++
	return fmt.Sprintf("mem:%s:%d", d.PropertyID, e.exports), nil
}

// Latest returns the last digest exported for a property.
func (e *Exporter) Latest(propertyID string) (ports.Digest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.latest[propertyID]
	return d, ok
}

// Exports counts every export call.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
