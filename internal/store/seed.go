package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"casa/internal/core"
)

// Seed loads a YAML document keyed by kind ("properties", "tasks"...) with a
// list of records under each key. Records without an id get a fresh one and
// missing audit stamps are set to now. It returns the number of records
// written.
//
//	properties:
//	  - id: home
//	    name: Main house
//	tasks:
//	  - propertyId: home
//	    title: Clean gutters
func (s *Store) Seed(ctx context.Context, r io.Reader) (int, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	// Entity types only know JSON, so the YAML tree is re-encoded first.
	b, err := json.Marshal(raw)
	if err != nil {
		return 0, fmt.Errorf("re-encode seed: %w", err)
	}
	var byKind map[string][]json.RawMessage
	if err := json.Unmarshal(b, &byKind); err != nil {
		return 0, fmt.Errorf("%w: seed must map kinds to lists: %v", ErrMalformed, err)
	}

	now := time.Now().UTC()
	written := 0
	// Kinds() gives a stable order so properties exist before their children.
	for _, kind := range core.Kinds() {
		for i, doc := range byKind[string(kind)] {
			v, err := s.Decode(kind, doc)
			if err != nil {
				return written, fmt.Errorf("seed %s[%d]: %w", kind, i, err)
			}
			meta := v.Meta()
			if meta.ID == "" {
				meta.ID = uuid.NewString()
			}
			if meta.CreatedAtUTC.IsZero() {
				meta.CreatedAtUTC = now
			}
			if meta.UpdatedAtUTC.IsZero() {
				meta.UpdatedAtUTC = meta.CreatedAtUTC
			}
			if err := s.Put(ctx, kind, v); err != nil {
				return written, fmt.Errorf("seed %s[%d]: %w", kind, i, err)
			}
			written++
		}
		delete(byKind, string(kind))
	}
	if len(byKind) > 0 {
		unknown := slices.Sorted(maps.Keys(byKind))
		return written, fmt.Errorf("%w: seed keys %q", ErrUnknownKind, unknown)
	}
	return written, nil
}

// SeedFile seeds from a file path.
func (s *Store) SeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return s.Seed(ctx, f)
}
