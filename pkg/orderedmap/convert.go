package orderedmap

import (
	"fmt"
)

// ToPlain converts a value graph containing *Map instances into plain Go
// maps with string keys, recursing through slices. Non-string keys are
// rendered with %v. Insertion order is lost; this is for sinks that only
// accept map[string]interface{} (JSON, TOML).
func ToPlain(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case *Map:
		result := make(map[string]interface{}, typedVal.Len())
		typedVal.Iterate(func(k, v interface{}) {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprintf("%v", k)
			}
			result[key] = ToPlain(v)
		})
		return result

	case []interface{}:
		result := make([]interface{}, len(typedVal))
		for i, item := range typedVal {
			result[i] = ToPlain(item)
		}
		return result

	default:
		return val
	}
}

// FromPlain converts plain Go maps into *Map instances, recursing through
// slices. Key order follows Go map iteration and is therefore unspecified;
// use this only where order does not matter.
func FromPlain(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case map[string]interface{}:
		result := NewMap()
		for k, v := range typedVal {
			result.Set(k, FromPlain(v))
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(typedVal))
		for i, item := range typedVal {
			result[i] = FromPlain(item)
		}
		return result

	default:
		return val
	}
}
