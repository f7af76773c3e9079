package insights

import (
	"testing"

	"casa/internal/core"
)

func space(id, propertyID string) core.Space {
	return core.Space{Record: core.Record{ID: id}, PropertyID: propertyID, Name: id}
}

func TestScope(t *testing.T) {
	spaces := []core.Space{space("s1", "p1"), space("s2", "p2"), space("s3", "p1")}

	tests := []struct {
		name       string
		propertyID string
		wantIDs    []string
	}{
		{name: "unset scope returns everything", propertyID: "", wantIDs: []string{"s1", "s2", "s3"}},
		{name: "filters by property", propertyID: "p1", wantIDs: []string{"s1", "s3"}},
		{name: "unknown property yields nothing", propertyID: "p9", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scope(spaces, tt.propertyID)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Scope() returned %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, s := range got {
				if s.ID != tt.wantIDs[i] {
					t.Errorf("Scope()[%d] = %s, want %s", i, s.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestScope_Idempotent(t *testing.T) {
	spaces := []core.Space{space("s1", "p1"), space("s2", "p2"), space("s3", "p1")}
	once := Scope(spaces, "p1")
	twice := Scope(once, "p1")
	if len(once) != len(twice) {
		t.Fatalf("second filter changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("item %d changed: %s -> %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestScope_PropertyMatchesItself(t *testing.T) {
	props := []core.Property{
		{Record: core.Record{ID: "p1"}, Name: "Home"},
		{Record: core.Record{ID: "p2"}, Name: "Cabin"},
	}
	got := Scope(props, "p2")
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("Scope(properties, p2) = %+v", got)
	}
}

func TestScopeSnapshot_KeepsHouseholds(t *testing.T) {
	s := core.Snapshot{
		Households: []core.Household{{Record: core.Record{ID: "h1"}, Name: "Family"}},
		Spaces:     []core.Space{space("s1", "p1"), space("s2", "p2")},
	}
	got := ScopeSnapshot(s, "p2")
	if len(got.Households) != 1 {
		t.Errorf("households = %d, want 1", len(got.Households))
	}
	if len(got.Spaces) != 1 || got.Spaces[0].ID != "s2" {
		t.Errorf("spaces = %+v", got.Spaces)
	}
}
