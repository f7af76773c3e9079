package insights

import (
	"testing"

	"casa/internal/core"
)

func tagged(tags ...string) core.Record {
	return core.Record{Tags: tags}
}

func TestTagUsage(t *testing.T) {
	s := core.Snapshot{
		Properties: []core.Property{{Record: tagged("Warranty")}},
		Inventory: []core.InventoryItem{
			{Record: tagged("Warranty", "Kitchen")},
			{Record: tagged("Warranty")},
		},
		Policies:  []core.InsurancePolicy{{Record: tagged("warranty")}},
		Utilities: []core.UtilityAccount{{Record: tagged("Kitchen")}},
		// Tag definitions are not counted.
		Tags: []core.Tag{{Record: tagged("Warranty"), Name: "Warranty"}},
	}

	got := TagUsage(s)
	want := map[string]int{"Warranty": 3, "Kitchen": 2, "warranty": 1}

	if len(got) != len(want) {
		t.Fatalf("TagUsage() = %v, want %v", got, want)
	}
	for name, n := range want {
		if got[name] != n {
			t.Errorf("TagUsage()[%q] = %d, want %d", name, got[name], n)
		}
	}
}

func TestTagUsage_TotalMatchesOccurrences(t *testing.T) {
	s := core.Snapshot{
		Households: []core.Household{{Record: tagged("a", "b")}},
		Spaces:     []core.Space{{Record: tagged("a")}, {Record: tagged(" a")}},
		Tasks:      []core.MaintenanceTask{{Record: tagged("c")}},
		Projects:   []core.Project{{Record: tagged()}},
		Categories: []core.InventoryCategory{{Record: tagged("b")}},
		Contacts:   []core.Contact{{Record: tagged("a")}},
		Documents:  []core.Document{{Record: tagged("d", "e")}},
	}

	total := 0
	for _, n := range TagUsage(s) {
		total += n
	}
	if total != 9 {
		t.Errorf("sum of counts = %d, want 9", total)
	}
}

func TestTagUsage_Empty(t *testing.T) {
	if got := TagUsage(core.Snapshot{}); len(got) != 0 {
		t.Errorf("TagUsage(empty) = %v, want empty map", got)
	}
}

func TestSortedTagUsage(t *testing.T) {
	got := SortedTagUsage(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []TagCount{{"c", 5}, {"a", 2}, {"b", 2}}
	if len(got) != len(want) {
		t.Fatalf("SortedTagUsage() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedTagUsage()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
