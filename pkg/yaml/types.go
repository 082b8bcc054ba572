package yaml

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// The standard type descriptors. Implicit resolution order matters: the
// schemas register null before bool before int before float, with str as
// the unconditional fallback.

var nullType = &Type{
	Tag:  yamlTagPrefix + "null",
	Kind: ScalarType,
	Resolve: func(value string) bool {
		switch value {
		case "", "~", "null", "Null", "NULL":
			return true
		}
		return false
	},
	Construct: func(data interface{}) (interface{}, error) {
		return nil, nil
	},
	Predicate: func(value interface{}) bool { return value == nil },
	Represent: func(value interface{}, style string) (string, error) {
		switch style {
		case "", "lowercase":
			return "null", nil
		case "canonical":
			return "~", nil
		case "uppercase":
			return "NULL", nil
		case "camelcase":
			return "Null", nil
		case "empty":
			return "", nil
		}
		return "", fmt.Errorf("unknown null style %q", style)
	},
}

var boolType = &Type{
	Tag:  yamlTagPrefix + "bool",
	Kind: ScalarType,
	Resolve: func(value string) bool {
		switch strings.ToLower(value) {
		case "true", "false", "yes", "no", "on", "off":
			return true
		}
		return false
	},
	Construct: func(data interface{}) (interface{}, error) {
		switch strings.ToLower(data.(string)) {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("cannot construct a boolean from %q", data)
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.(bool)
		return ok
	},
	Represent: func(value interface{}, style string) (string, error) {
		text := strconv.FormatBool(value.(bool))
		switch style {
		case "", "lowercase":
			return text, nil
		case "uppercase":
			return strings.ToUpper(text), nil
		case "camelcase":
			return strings.ToUpper(text[:1]) + text[1:], nil
		}
		return "", fmt.Errorf("unknown bool style %q", style)
	},
}

var intPattern = regexp.MustCompile(
	`^[-+]?(0b[0-1_]+|0o[0-7_]+|0x[0-9a-fA-F_]+|[0-9][0-9_]*)$`)

var intType = &Type{
	Tag:  yamlTagPrefix + "int",
	Kind: ScalarType,
	Resolve: func(value string) bool {
		return intPattern.MatchString(value)
	},
	Construct: func(data interface{}) (interface{}, error) {
		text := strings.ReplaceAll(data.(string), "_", "")
		sign := ""
		if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
			if text[0] == '-' {
				sign = "-"
			}
			text = text[1:]
		}
		base := 10
		switch {
		case strings.HasPrefix(text, "0b"):
			base, text = 2, text[2:]
		case strings.HasPrefix(text, "0o"):
			base, text = 8, text[2:]
		case strings.HasPrefix(text, "0x"):
			base, text = 16, text[2:]
		}
		n, err := strconv.ParseInt(sign+text, base, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot construct an integer from %q: %v", data, err)
		}
		return n, nil
	},
	Predicate: func(value interface{}) bool {
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	},
	Represent: func(value interface{}, style string) (string, error) {
		n, err := intValue(value)
		if err != nil {
			return "", err
		}
		switch style {
		case "", "decimal":
			return strconv.FormatInt(n, 10), nil
		case "binary":
			return formatRadix(n, 2, "0b"), nil
		case "octal":
			return formatRadix(n, 8, "0o"), nil
		case "hexadecimal":
			return formatRadix(n, 16, "0x"), nil
		}
		return "", fmt.Errorf("unknown int style %q", style)
	},
}

func intValue(value interface{}) (int64, error) {
	switch n := value.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows the representable range", n)
		}
		return int64(n), nil
	}
	return 0, fmt.Errorf("not an integer: %T", value)
}

func formatRadix(n int64, base int, prefix string) string {
	if n < 0 {
		return "-" + prefix + strconv.FormatInt(-n, base)
	}
	return prefix + strconv.FormatInt(n, base)
}

var floatPattern = regexp.MustCompile(
	`^[-+]?(\.(inf|Inf|INF)|\.(nan|NaN|NAN)|[0-9][0-9_]*\.[0-9_]*([eE][-+]?[0-9]+)?|\.[0-9_]+([eE][-+]?[0-9]+)?|[0-9][0-9_]*[eE][-+]?[0-9]+)$`)

var floatType = &Type{
	Tag:  yamlTagPrefix + "float",
	Kind: ScalarType,
	Resolve: func(value string) bool {
		return floatPattern.MatchString(value)
	},
	Construct: func(data interface{}) (interface{}, error) {
		text := strings.ReplaceAll(data.(string), "_", "")
		lower := strings.ToLower(text)
		switch lower {
		case ".inf", "+.inf":
			return math.Inf(1), nil
		case "-.inf":
			return math.Inf(-1), nil
		case ".nan", "+.nan", "-.nan":
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot construct a float from %q: %v", data, err)
		}
		return f, nil
	},
	Predicate: func(value interface{}) bool {
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	},
	Represent: func(value interface{}, style string) (string, error) {
		var f float64
		switch v := value.(type) {
		case float32:
			f = float64(v)
		case float64:
			f = v
		}
		switch {
		case math.IsInf(f, 1):
			return ".inf", nil
		case math.IsInf(f, -1):
			return "-.inf", nil
		case math.IsNaN(f):
			return ".nan", nil
		}
		text := strconv.FormatFloat(f, 'g', -1, 64)
		// Keep integral floats distinguishable from ints on reload.
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		return text, nil
	},
}

var timestampPattern = regexp.MustCompile(
	`^[0-9]{4}-[0-9]{2}-[0-9]{2}([Tt ][0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?( ?(Z|[-+][0-9]{1,2}(:[0-9]{2})?))?)?$`)

var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 Z07:00",
}

var timestampType = &Type{
	Tag:  yamlTagPrefix + "timestamp",
	Kind: ScalarType,
	Resolve: func(value string) bool {
		return timestampPattern.MatchString(value)
	},
	Construct: func(data interface{}) (interface{}, error) {
		text := data.(string)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, text); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("cannot construct a timestamp from %q", data)
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.(time.Time)
		return ok
	},
	Represent: func(value interface{}, style string) (string, error) {
		ts := value.(time.Time)
		if ts.Equal(ts.Truncate(24 * time.Hour)) {
			return ts.Format("2006-01-02"), nil
		}
		return ts.Format(time.RFC3339Nano), nil
	},
}

var binaryType = &Type{
	Tag:  yamlTagPrefix + "binary",
	Kind: ScalarType,
	Construct: func(data interface{}) (interface{}, error) {
		text := strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, data.(string))
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("cannot construct binary data: %v", err)
		}
		return raw, nil
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.([]byte)
		return ok
	},
	Represent: func(value interface{}, style string) (string, error) {
		return base64.StdEncoding.EncodeToString(value.([]byte)), nil
	},
}

var strType = &Type{
	Tag:  yamlTagPrefix + "str",
	Kind: ScalarType,
	Construct: func(data interface{}) (interface{}, error) {
		return data.(string), nil
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.(string)
		return ok
	},
	Represent: func(value interface{}, style string) (string, error) {
		return value.(string), nil
	},
}

var seqType = &Type{
	Tag:  yamlTagPrefix + "seq",
	Kind: SequenceType,
	Construct: func(data interface{}) (interface{}, error) {
		return data.([]interface{}), nil
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.([]interface{})
		return ok
	},
}

var mapType = &Type{
	Tag:  yamlTagPrefix + "map",
	Kind: MappingType,
	Construct: func(data interface{}) (interface{}, error) {
		return data.(*orderedmap.Map), nil
	},
	Predicate: func(value interface{}) bool {
		_, ok := value.(*orderedmap.Map)
		return ok
	},
}
