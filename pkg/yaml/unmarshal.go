package yaml

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// Unmarshaler is the interface implemented by types that can unmarshal a
// YAML description of themselves. The value passed in is the native form
// the document loaded to.
type Unmarshaler interface {
	UnmarshalYAML(value interface{}) error
}

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// Unmarshal parses the YAML-encoded data and stores the result in the
// value pointed to by v.
//
// The document is first loaded to its native form, then assigned into v
// using the inverse of Marshal's encodings: mappings populate structs by
// field name (the `yaml` tag or the lowercased field name) or maps,
// sequences populate slices and arrays, and scalars populate the matching
// scalar kinds with overflow checks. Unmarshaling into a *interface{}
// stores the native value unchanged, mappings as *orderedmap.Map.
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalWithOptions(data, v, nil)
}

// UnmarshalWithOptions is Unmarshal with explicit load options.
func UnmarshalWithOptions(data []byte, v interface{}, opts *Options) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.New("yaml: Unmarshal(nil)")
	}
	if rv.Kind() != reflect.Ptr {
		return errors.New("yaml: Unmarshal(non-pointer " + rv.Type().String() + ")")
	}
	if rv.IsNil() {
		return errors.New("yaml: Unmarshal(nil " + rv.Type().String() + ")")
	}

	native, err := Load(string(data), opts)
	if err != nil {
		return err
	}
	return assignValue(native, rv.Elem())
}

// assignValue stores a native value into rv, allocating pointers, maps,
// and slices as needed.
func assignValue(native interface{}, rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if native == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return assignValue(native, rv.Elem())
	}

	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalYAML(native)
	}

	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		if native == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		rv.Set(reflect.ValueOf(native))
		return nil
	}

	if native == nil {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	// Native passthroughs for types the schema constructs directly.
	switch rv.Type() {
	case reflect.TypeOf(time.Time{}):
		if ts, ok := native.(time.Time); ok {
			rv.Set(reflect.ValueOf(ts))
			return nil
		}
		return assignError(native, rv)
	case reflect.TypeOf([]byte(nil)):
		switch v := native.(type) {
		case []byte:
			rv.SetBytes(v)
			return nil
		case string:
			rv.SetBytes([]byte(v))
			return nil
		}
	case reflect.TypeOf((*orderedmap.Map)(nil)):
		if m, ok := native.(*orderedmap.Map); ok {
			rv.Set(reflect.ValueOf(m))
			return nil
		}
		return assignError(native, rv)
	}

	switch rv.Kind() {
	case reflect.Bool:
		if b, ok := native.(bool); ok {
			rv.SetBool(b)
			return nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := native.(type) {
		case int64:
			if rv.OverflowInt(v) {
				return overflowError(v, rv)
			}
			rv.SetInt(v)
			return nil
		case float64:
			if v != float64(int64(v)) || rv.OverflowInt(int64(v)) {
				return overflowError(v, rv)
			}
			rv.SetInt(int64(v))
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v, ok := native.(int64); ok {
			if v < 0 || rv.OverflowUint(uint64(v)) {
				return overflowError(v, rv)
			}
			rv.SetUint(uint64(v))
			return nil
		}

	case reflect.Float32, reflect.Float64:
		switch v := native.(type) {
		case float64:
			if rv.OverflowFloat(v) {
				return overflowError(v, rv)
			}
			rv.SetFloat(v)
			return nil
		case int64:
			rv.SetFloat(float64(v))
			return nil
		}

	case reflect.String:
		if s, ok := native.(string); ok {
			rv.SetString(s)
			return nil
		}

	case reflect.Struct:
		if m, ok := native.(*orderedmap.Map); ok {
			return assignStruct(m, rv)
		}

	case reflect.Map:
		if m, ok := native.(*orderedmap.Map); ok {
			return assignMap(m, rv)
		}

	case reflect.Slice:
		if seq, ok := native.([]interface{}); ok {
			out := reflect.MakeSlice(rv.Type(), len(seq), len(seq))
			for i, item := range seq {
				if err := assignValue(item, out.Index(i)); err != nil {
					return err
				}
			}
			rv.Set(out)
			return nil
		}

	case reflect.Array:
		if seq, ok := native.([]interface{}); ok {
			if len(seq) > rv.Len() {
				return fmt.Errorf("yaml: sequence length %d exceeds array length %d", len(seq), rv.Len())
			}
			for i, item := range seq {
				if err := assignValue(item, rv.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return assignError(native, rv)
}

func assignStruct(m *orderedmap.Map, rv reflect.Value) error {
	byName := make(map[string]int)
	for _, field := range fieldsOf(rv.Type()) {
		byName[field.name] = field.index
	}
	return m.IterateErr(func(k, v interface{}) error {
		name, ok := k.(string)
		if !ok {
			return nil
		}
		idx, ok := byName[name]
		if !ok {
			return nil
		}
		return assignValue(v, rv.Field(idx))
	})
}

func assignMap(m *orderedmap.Map, rv reflect.Value) error {
	t := rv.Type()
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(t, m.Len()))
	}
	return m.IterateErr(func(k, v interface{}) error {
		key := reflect.New(t.Key()).Elem()
		if err := assignValue(k, key); err != nil {
			return err
		}
		elem := reflect.New(t.Elem()).Elem()
		if err := assignValue(v, elem); err != nil {
			return err
		}
		rv.SetMapIndex(key, elem)
		return nil
	})
}

func assignError(native interface{}, rv reflect.Value) error {
	return fmt.Errorf("yaml: cannot unmarshal %T into Go value of type %s", native, rv.Type())
}

func overflowError(v interface{}, rv reflect.Value) error {
	return fmt.Errorf("yaml: value %v overflows %s", v, rv.Type())
}
