package models

import "sort"

// Attributes holds the category-specific extension fields of a Tag or Data
// row. It is persisted as a JSON text column.
type Attributes map[string]string

// Keys returns the attribute names in ascending order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy that can be modified independently.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

func (a Attributes) flatten(into map[string]any) {
	for key, value := range a {
		if _, exists := into[key]; exists {
			continue
		}
		into[key] = value
	}
}
