package schema

// Field type names. These follow JSON Schema primitive type naming so that
// hosts can translate extensions directly into their own schema documents.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// FieldSpec describes a single field contributed to a host data model by a
// plugin. It is purely descriptive: the SDK passes it through to the host
// unmodified and performs no validation against it.
type FieldSpec struct {
	// Type is the JSON Schema primitive type of the field.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Description is a human-readable explanation of the field.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Default is the value the host should use when the field is absent.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Enum restricts the field to a fixed set of values, if non-empty.
	Enum []any `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Required marks the field as mandatory on the extended model.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Items describes the element type for array fields.
	Items *FieldSpec `json:"items,omitempty" yaml:"items,omitempty"`
}

// String creates a field specification for a string field.
func String() FieldSpec {
	return FieldSpec{Type: TypeString}
}

// StringWithDesc creates a string field specification with a description.
func StringWithDesc(desc string) FieldSpec {
	return FieldSpec{Type: TypeString, Description: desc}
}

// Int creates a field specification for an integer field.
func Int() FieldSpec {
	return FieldSpec{Type: TypeInteger}
}

// IntWithDesc creates an integer field specification with a description.
func IntWithDesc(desc string) FieldSpec {
	return FieldSpec{Type: TypeInteger, Description: desc}
}

// Number creates a field specification for a floating-point field.
func Number() FieldSpec {
	return FieldSpec{Type: TypeNumber}
}

// Bool creates a field specification for a boolean field.
func Bool() FieldSpec {
	return FieldSpec{Type: TypeBoolean}
}

// Array creates a field specification for an array field with the given
// element specification.
func Array(items FieldSpec) FieldSpec {
	return FieldSpec{Type: TypeArray, Items: &items}
}

// Object creates a field specification for an opaque object field.
func Object() FieldSpec {
	return FieldSpec{Type: TypeObject}
}

// Enum creates a field specification restricted to the given values.
func Enum(values ...any) FieldSpec {
	return FieldSpec{Enum: values}
}

// WithDefault returns a copy of the specification with the default value set.
// The receiver is not modified.
func (f FieldSpec) WithDefault(v any) FieldSpec {
	f.Default = v
	return f
}

// WithDescription returns a copy of the specification with the description
// set. The receiver is not modified.
func (f FieldSpec) WithDescription(desc string) FieldSpec {
	f.Description = desc
	return f
}

// AsRequired returns a copy of the specification marked required.
// The receiver is not modified.
func (f FieldSpec) AsRequired() FieldSpec {
	f.Required = true
	return f
}
