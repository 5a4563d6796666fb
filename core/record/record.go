// Package record defines the entity record exchanged between the world
// connection and the backup file store, and the codec that turns one record
// into one line of JSON.
package record

import "maps"

// Record is one entity of world data: an object placement, a terrain node,
// or a world attribute. Its fields depend on the category it came from.
type Record map[string]any

// TransientFields are query-time identifiers assigned by the world server.
// They are never valid on a mutation and are removed before a record is
// replayed.
var TransientFields = []string{"id", "number"}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Strip returns a copy of r without the given keys. r is not modified.
func (r Record) Strip(keys ...string) Record {
	out := r.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// StripTransient returns a copy of r without TransientFields.
func (r Record) StripTransient() Record {
	return r.Strip(TransientFields...)
}

// StringField returns the field as a string and whether it was present as one.
func (r Record) StringField(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}
