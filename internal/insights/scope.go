package insights

import "casa/internal/core"

// Scope narrows items to those owned by propertyID. An empty propertyID means
// no property is selected and the input is returned unchanged.
func Scope[T core.Entity](items []T, propertyID string) []T {
	if propertyID == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.ScopeID() == propertyID {
			out = append(out, it)
		}
	}
	return out
}

// ScopeSnapshot applies Scope to every property-bound collection. Households
// are not owned by a property and pass through unchanged.
func ScopeSnapshot(s core.Snapshot, propertyID string) core.Snapshot {
	if propertyID == "" {
		return s
	}
	return core.Snapshot{
		Households: s.Households,
		Properties: Scope(s.Properties, propertyID),
		Spaces:     Scope(s.Spaces, propertyID),
		Tasks:      Scope(s.Tasks, propertyID),
		Projects:   Scope(s.Projects, propertyID),
		Tags:       Scope(s.Tags, propertyID),
		Inventory:  Scope(s.Inventory, propertyID),
		Categories: Scope(s.Categories, propertyID),
		Contacts:   Scope(s.Contacts, propertyID),
		Documents:  Scope(s.Documents, propertyID),
		Policies:   Scope(s.Policies, propertyID),
		Utilities:  Scope(s.Utilities, propertyID),
	}
}
