package yaml

// TypeKind selects which node kinds a type descriptor applies to.
type TypeKind int

const (
	ScalarType TypeKind = iota
	SequenceType
	MappingType
)

// yamlTagPrefix is the namespace of the standard tags.
const yamlTagPrefix = "tag:yaml.org,2002:"

// Type describes one tag: how plain scalars resolve to it implicitly, how
// source data constructs the native value, and how native values are
// recognized and rendered when dumping.
type Type struct {
	// Tag is the full tag, e.g. "tag:yaml.org,2002:int".
	Tag string

	Kind TypeKind

	// Resolve reports whether a plain scalar belongs to this type. A nil
	// Resolve makes the type reachable only through an explicit tag.
	Resolve func(value string) bool

	// Construct builds the native value. Scalar types receive the decoded
	// string, sequence types a []interface{}, mapping types a
	// *orderedmap.Map.
	Construct func(data interface{}) (interface{}, error)

	// Predicate reports whether a native value dumps as this type.
	Predicate func(value interface{}) bool

	// Represent renders a native value for output: a string for scalar
	// types. style selects an alternate form ("" for the default).
	Represent func(value interface{}, style string) (string, error)
}

// Schema is an ordered list of type descriptors. Resolution and predicate
// selection take the first match, so descriptor order is part of schema
// identity.
type Schema struct {
	types    []*Type
	byTag    map[string]*Type
	implicit []*Type
}

// NewSchema creates a schema holding base's descriptors followed by the
// given ones. base may be nil. For duplicate tags the earlier descriptor
// wins lookups, keeping first-match semantics under extension.
func NewSchema(base *Schema, types ...*Type) *Schema {
	s := &Schema{byTag: make(map[string]*Type)}
	if base != nil {
		s.types = append(s.types, base.types...)
	}
	s.types = append(s.types, types...)
	for _, t := range s.types {
		if _, dup := s.byTag[t.Tag]; !dup {
			s.byTag[t.Tag] = t
		}
		if t.Resolve != nil {
			s.implicit = append(s.implicit, t)
		}
	}
	return s
}

// Types returns the descriptors in registration order. The slice is shared;
// callers must not modify it.
func (s *Schema) Types() []*Type { return s.types }

// Lookup returns the descriptor registered for tag.
func (s *Schema) Lookup(tag string) (*Type, bool) {
	t, ok := s.byTag[tag]
	return t, ok
}

// resolveScalar returns the first implicit type matching a plain scalar,
// falling back to str.
func (s *Schema) resolveScalar(value string) *Type {
	for _, t := range s.implicit {
		if t.Resolve(value) {
			return t
		}
	}
	return s.byTag[yamlTagPrefix+"str"]
}

// typeFor returns the first descriptor whose predicate accepts value.
func (s *Schema) typeFor(value interface{}) (*Type, bool) {
	for _, t := range s.types {
		if t.Predicate != nil && t.Predicate(value) {
			return t, true
		}
	}
	return nil, false
}

// The built-in schemas, coarsest to richest.
var (
	// FailsafeSchema understands only strings, sequences, and mappings.
	FailsafeSchema = NewSchema(nil, strType, seqType, mapType)

	// CoreSchema adds null, booleans, integers, and floats.
	CoreSchema = NewSchema(nil,
		nullType, boolType, intType, floatType,
		strType, seqType, mapType)

	// DefaultSchema is CoreSchema plus timestamps and binary data. Load
	// and Dump use it when Options.Schema is nil.
	DefaultSchema = NewSchema(nil,
		nullType, boolType, intType, floatType, timestampType,
		binaryType, strType, seqType, mapType)
)
