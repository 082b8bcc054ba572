// Package yaml loads YAML text into native Go values and dumps native
// values back to YAML text.
//
// Loading produces nil, bool, int64, float64, string, time.Time, []byte,
// []interface{}, and *orderedmap.Map values; mappings keep their source key
// order. Which tags resolve, and how native values are rendered, is
// controlled by the schema in Options.
//
//	value, err := yaml.Load("a: 1\nb: [x, y]\n", nil)
//
// Every failure is a *fault.Error carrying a code, a reason, and a source
// mark, so callers can branch on fault.CodeOf(err) or print the formatted
// message with its position and snippet.
package yaml

import (
	"strings"

	"github.com/shapestone/yamlkit/internal/parser"
	"github.com/shapestone/yamlkit/internal/scanner"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// Load parses input holding a single document and returns its native value.
// An empty stream loads as nil; a stream with more than one document fails.
func Load(input string, opts *Options) (interface{}, error) {
	o := opts.withDefaults()
	var (
		value interface{}
		count int
	)
	err := eachDocument(input, o, func(doc interface{}) error {
		count++
		if count > 1 {
			return fault.New(fault.Parser,
				"expected a single document in the stream, but found more",
				fault.Mark{Name: o.Filename})
		}
		value = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// LoadAll parses a multi-document stream and returns the native value of
// every document, in order.
func LoadAll(input string, opts *Options) ([]interface{}, error) {
	var values []interface{}
	err := eachDocument(input, opts.withDefaults(), func(doc interface{}) error {
		values = append(values, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// EachDocument parses a multi-document stream, calling fn with each
// document's native value as it completes. A non-nil error from fn stops
// the stream; documents already delivered stay delivered.
func EachDocument(input string, opts *Options, fn func(value interface{}) error) error {
	return eachDocument(input, opts.withDefaults(), fn)
}

// Validate parses and constructs every document in input, reporting the
// first fault without keeping any values.
func Validate(input string, opts *Options) error {
	return eachDocument(input, opts.withDefaults(), func(interface{}) error {
		return nil
	})
}

// Dump serializes value as a single YAML document. The output always ends
// with a newline; a skipped root (SkipInvalid) dumps as the empty string.
func Dump(value interface{}, opts *Options) (string, error) {
	return dumpValue(value, opts.withDefaults())
}

// DumpAll serializes values as a multi-document stream, each document
// preceded by a "---" marker, so LoadAll on the output yields the values
// back in order.
func DumpAll(values []interface{}, opts *Options) (string, error) {
	o := opts.withDefaults()
	var b strings.Builder
	for _, value := range values {
		text, err := dumpValue(value, o)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.WriteString(text)
	}
	return b.String(), nil
}

// eachDocument runs the scan/parse/construct pipeline over a stream.
// Anchors are scoped per document, so each one constructs independently.
func eachDocument(input string, o *Options, fn func(interface{}) error) error {
	tokens, err := scanner.Scan(input, o.Filename)
	if err != nil {
		return err
	}
	p := parser.New(tokens, input, o.Filename, o.MaxDepth)
	for {
		doc, ok, err := p.NextDocument()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		value, err := newConstructor(o).constructDocument(doc)
		if err != nil {
			return err
		}
		if err := fn(value); err != nil {
			return err
		}
	}
}
