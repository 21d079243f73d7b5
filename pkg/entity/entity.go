// Package entity loads the records edit forms are bound to.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Entity is the record a put/patch form operates on. Only its identifier is
// needed to parameterise member routes.
type Entity interface {
	ID() any
}

// AttributeSource is implemented by entities able to pre-fill field values.
type AttributeSource interface {
	Attribute(column string) (any, bool)
}

// Record is a generic Entity backed by an attribute map.
type Record struct {
	Key   any
	Attrs map[string]any
}

var (
	_ Entity          = Record{}
	_ AttributeSource = Record{}
)

// NewRecord returns a Record with a normalised identifier.
func NewRecord(id any, attrs map[string]any) Record {
	return Record{Key: NormalizeID(id), Attrs: attrs}
}

// ID returns the record identifier.
func (r Record) ID() any {
	return r.Key
}

// Attribute returns the value stored for column.
func (r Record) Attribute(column string) (any, bool) {
	if r.Attrs == nil {
		return nil, false
	}
	value, ok := r.Attrs[column]
	return value, ok
}

// ID is a bare identifier usable as an Entity when no attributes are known.
type ID struct {
	Value any
}

// ID returns the wrapped identifier.
func (i ID) ID() any {
	return i.Value
}

// NormalizeID canonicalises UUID strings and byte slices so route parameters
// render consistently. Other values are returned unchanged.
func NormalizeID(id any) any {
	switch v := id.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if parsed, err := uuid.Parse(trimmed); err == nil {
			return parsed
		}
		return trimmed
	case []byte:
		if len(v) == 16 {
			if parsed, err := uuid.FromBytes(v); err == nil {
				return parsed
			}
		}
		return string(v)
	default:
		return id
	}
}
