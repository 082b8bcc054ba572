package yaml

import (
	"reflect"
	"strings"
)

// fieldInfo describes how one struct field maps to a YAML key, parsed from
// the field's `yaml` tag.
type fieldInfo struct {
	name      string
	skip      bool
	omitEmpty bool
}

// getFieldInfo extracts the YAML mapping for a struct field. An untagged
// field uses the lowercased field name; a "-" tag skips the field.
func getFieldInfo(field reflect.StructField) fieldInfo {
	tag := field.Tag.Get("yaml")
	if tag == "" {
		return fieldInfo{name: strings.ToLower(field.Name)}
	}

	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "-" {
		return fieldInfo{skip: true}
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	info := fieldInfo{name: name}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			info.omitEmpty = true
		}
	}
	return info
}

// structField pairs a field's YAML info with its index path.
type structField struct {
	fieldInfo
	index int
}

// fieldsOf returns the exported, non-skipped fields of a struct type in
// declaration order.
func fieldsOf(t reflect.Type) []structField {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		info := getFieldInfo(field)
		if info.skip {
			continue
		}
		fields = append(fields, structField{fieldInfo: info, index: i})
	}
	return fields
}

// isEmptyValue reports whether a value is skipped under omitempty: false,
// zero numbers, empty strings and collections, nil pointers and interfaces.
func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return rv.IsNil()
	}
	return false
}
