package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// AttributeType is the mandatory metadata attribute carrying the field type.
const AttributeType = "type"

// Field types recognised by the schema table.
const (
	TypeInput      = "input"
	TypeSelect     = "select"
	TypeDatepicker = "datepicker"
	TypeTimepicker = "timepicker"
	TypeTextarea   = "textarea"
)

var (
	// ErrMissingAttribute reports a mandatory attribute absent from field metadata.
	ErrMissingAttribute = errors.New("schema: missing mandatory attribute")
	// ErrUnknownAttribute reports an attribute name outside the mandatory and
	// optional sets.
	ErrUnknownAttribute = errors.New("schema: unknown attribute")
	// ErrUnknownType reports a `type` value outside the known field types.
	ErrUnknownType = errors.New("schema: unknown field type")
	// ErrInvalidAttributeValue reports a value that cannot be coerced into the
	// attribute's expected kind.
	ErrInvalidAttributeValue = errors.New("schema: invalid attribute value")
)

var mandatoryAttributes = []string{AttributeType}

var optionalAttributes = []string{
	"options", "multiple", "custom", "content", "step", "min", "max",
	"disabled", "readonly", "hidden", "source", "format", "time", "rows", "keyMap",
	"placeholder",
}

var knownTypes = []string{TypeInput, TypeSelect, TypeDatepicker, TypeTimepicker, TypeTextarea}

var booleanAttributes = map[string]struct{}{
	"multiple": {},
	"custom":   {},
	"disabled": {},
	"readonly": {},
	"hidden":   {},
	"time":     {},
}

var numericAttributes = map[string]struct{}{
	"step": {},
	"min":  {},
	"max":  {},
	"rows": {},
}

// Attributes lists the mandatory and optional metadata attribute names for a
// field type.
type Attributes struct {
	Mandatory []string `json:"mandatory" yaml:"mandatory"`
	Optional  []string `json:"optional" yaml:"optional"`
}

// Has reports whether name is part of either set.
func (a Attributes) Has(name string) bool {
	return contains(a.Mandatory, name) || contains(a.Optional, name)
}

// IsKnownType reports whether t is one of the recognised field types.
func IsKnownType(t string) bool {
	return contains(knownTypes, t)
}

// Types returns the recognised field types in declaration order.
func Types() []string {
	return append([]string(nil), knownTypes...)
}

// AttributesFor returns the attribute sets for the given type. The table is
// not specialised per type yet, so every type shares the global sets.
func AttributesFor(string) Attributes {
	return Attributes{
		Mandatory: append([]string(nil), mandatoryAttributes...),
		Optional:  append([]string(nil), optionalAttributes...),
	}
}

// IsAttribute reports whether name is a legal metadata attribute.
func IsAttribute(name string) bool {
	return contains(mandatoryAttributes, name) || contains(optionalAttributes, name)
}

// ValidateMeta checks field metadata against the table: every mandatory
// attribute is present, the type is known and, when strict, no attribute falls
// outside the mandatory/optional sets.
func ValidateMeta(meta map[string]any, strict bool) error {
	fieldType := strings.TrimSpace(cast.ToString(meta[AttributeType]))
	attrs := AttributesFor(fieldType)

	for _, name := range attrs.Mandatory {
		value, ok := meta[name]
		if !ok || value == nil {
			return fmt.Errorf("%w %q", ErrMissingAttribute, name)
		}
	}

	if !IsKnownType(fieldType) {
		return fmt.Errorf("%w %q (allowed: %s)", ErrUnknownType, fieldType, strings.Join(knownTypes, ", "))
	}

	if !strict {
		return nil
	}

	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !attrs.Has(name) {
			return fmt.Errorf("%w %q", ErrUnknownAttribute, name)
		}
	}
	return nil
}

// Coerce normalises a metadata value according to the attribute it is stored
// under. Boolean and numeric attributes accept their string forms; everything
// else is returned untouched.
func Coerce(attr string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if _, ok := booleanAttributes[attr]; ok {
		out, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%v: %v", ErrInvalidAttributeValue, attr, value, err)
		}
		return out, nil
	}
	if _, ok := numericAttributes[attr]; ok {
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return value, nil
		}
		out, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%v: %v", ErrInvalidAttributeValue, attr, value, err)
		}
		return out, nil
	}
	if attr == AttributeType {
		t := strings.TrimSpace(cast.ToString(value))
		if !IsKnownType(t) {
			return nil, fmt.Errorf("%w %q (allowed: %s)", ErrUnknownType, t, strings.Join(knownTypes, ", "))
		}
		return t, nil
	}
	return value, nil
}

func contains(values []string, needle string) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
