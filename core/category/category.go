// Package category defines the closed set of world-data categories and
// backup actions, and the resolver that maps human-facing names onto them.
package category

import (
	"fmt"
	"strings"
)

// Category identifies one of the independently backed-up world-data domains.
type Category int

const (
	World   Category = iota + 1 // world attributes
	Object                      // placed objects
	Terrain                     // terrain nodes
)

// AllToken is the registry token for the meta-category covering every
// category independently.
const AllToken = "ALL"

var resolveTable = map[string]Category{
	"ATTRIBUTE": World,
	"WORLD":     World,
	"OBJECT":    Object,
	"TERRAIN":   Terrain,
}

// Resolve maps a category name to a Category. Matching is case-insensitive
// and accepts singular or plural forms: the name is uppercased, a single
// trailing "S" is removed, and the result is looked up in a fixed table, so
// "attributes", "Attribute" and "WORLD" all resolve to World.
func Resolve(name string) (Category, error) {
	normalized := strings.TrimSuffix(strings.ToUpper(name), "S")

	c, ok := resolveTable[normalized]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// All returns every category in the fixed order used by aggregate actions.
func All() []Category {
	return []Category{World, Object, Terrain}
}

// IsValid reports whether c is one of the defined categories.
func (c Category) IsValid() bool {
	return c >= World && c <= Terrain
}

// String returns the query namespace name of the category.
func (c Category) String() string {
	switch c {
	case World:
		return "WORLD"
	case Object:
		return "OBJECT"
	case Terrain:
		return "TERRAIN"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Key returns the token used in invoker action names ("SAVE OBJECTS").
func (c Category) Key() string {
	switch c {
	case World:
		return "ATTRIBUTES"
	case Object:
		return "OBJECTS"
	case Terrain:
		return "TERRAIN"
	default:
		return ""
	}
}

// Suffix returns the lower-case name appended to backup files written by
// aggregate actions ("backup.json_objects").
func (c Category) Suffix() string {
	return strings.ToLower(c.Key())
}
