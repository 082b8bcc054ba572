package yaml

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// Marshaler is the interface implemented by types that can substitute a
// YAML-representable value for themselves while marshaling.
type Marshaler interface {
	MarshalYAML() (interface{}, error)
}

var marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()

// Marshal returns the YAML encoding of v.
//
// Marshal first lowers v to the native value forms Dump accepts: structs
// become mappings keyed by field name in declaration order, maps become
// mappings with sorted keys, slices and arrays become sequences, and
// numeric kinds widen to int64 or float64. time.Time and []byte values pass
// through and dump as timestamps and base64 binary. Values implementing
// Marshaler are replaced by the value MarshalYAML returns.
//
// Struct field encoding is customized by the `yaml` field tag: the tag
// names the key, "-" skips the field, and the "omitempty" option drops the
// field when its value is empty (false, 0, nil, or an empty string or
// collection). An untagged field uses the lowercased field name.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWithOptions(v, nil)
}

// MarshalWithOptions is Marshal with explicit dump options.
func MarshalWithOptions(v interface{}, opts *Options) ([]byte, error) {
	native, err := toNative(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	text, err := Dump(native, opts)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// toNative lowers an arbitrary Go value to the native tree forms.
func toNative(rv reflect.Value) (interface{}, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	if rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil, nil
		}
		sub, err := rv.Interface().(Marshaler).MarshalYAML()
		if err != nil {
			return nil, err
		}
		return toNative(reflect.ValueOf(sub))
	}
	if rv.Kind() != reflect.Ptr && rv.CanAddr() &&
		reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		return toNative(rv.Addr())
	}

	// Native passthroughs that the schema recognizes directly.
	switch v := rv.Interface().(type) {
	case time.Time:
		return v, nil
	case []byte:
		return v, nil
	case *orderedmap.Map:
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return toNative(rv.Elem())

	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("yaml: value %d overflows the representable integer range", u)
		}
		return int64(u), nil

	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil

	case reflect.String:
		return rv.String(), nil

	case reflect.Struct:
		return structToNative(rv)

	case reflect.Map:
		return mapToNative(rv)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		seq := make([]interface{}, rv.Len())
		for i := range seq {
			item, err := toNative(rv.Index(i))
			if err != nil {
				return nil, err
			}
			seq[i] = item
		}
		return seq, nil
	}
	return nil, fmt.Errorf("yaml: unsupported type %s", rv.Type())
}

func structToNative(rv reflect.Value) (interface{}, error) {
	m := orderedmap.NewMap()
	for _, field := range fieldsOf(rv.Type()) {
		fv := rv.Field(field.index)
		if field.omitEmpty && isEmptyValue(fv) {
			continue
		}
		value, err := toNative(fv)
		if err != nil {
			return nil, err
		}
		m.Set(field.name, value)
	}
	return m, nil
}

// mapToNative converts a Go map, sorting keys so the output is stable.
func mapToNative(rv reflect.Value) (interface{}, error) {
	if rv.IsNil() {
		return nil, nil
	}

	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	m := orderedmap.NewMap()
	for _, key := range keys {
		k, err := toNative(key)
		if err != nil {
			return nil, err
		}
		v, err := toNative(rv.MapIndex(key))
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}
