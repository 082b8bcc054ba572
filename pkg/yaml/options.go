package yaml

import (
	"strings"

	"github.com/shapestone/yamlkit/pkg/fault"
)

// Options controls loading and dumping. The zero value (and nil) selects the
// defaults; load-only fields are ignored by Dump and vice versa.
type Options struct {
	// Schema selects the type descriptors used for resolution and
	// representation. Defaults to DefaultSchema.
	Schema *Schema

	// Filename is attached to every error mark so messages reference the
	// source file.
	Filename string

	// OnWarning receives recoverable anomalies, such as duplicate mapping
	// keys. Returning a non-nil error promotes the warning to a fatal
	// load failure. A nil handler ignores warnings.
	OnWarning func(warning *fault.Error) error

	// MaxDepth bounds document and value nesting. Defaults to 1024.
	MaxDepth int

	// Indent is the number of spaces per nesting level when dumping.
	// Defaults to 2; values below 1 are treated as the default.
	Indent int

	// FlowLevel switches collection output to flow style from the given
	// 1-based nesting depth downward: 1 renders everything in flow, 2
	// keeps the root block but nests in flow, and so on. Zero (the
	// default) keeps block style throughout.
	FlowLevel int

	// LineWidth is the preferred maximum line width when dumping. Long
	// strings are folded to stay within it. Non-positive disables
	// wrapping. Defaults to 80.
	LineWidth int

	// SortKeys orders mapping keys lexicographically instead of keeping
	// insertion order. KeyComparator, when set, supplies the ordering and
	// implies SortKeys.
	SortKeys      bool
	KeyComparator func(a, b interface{}) int

	// NoRefs disables anchor/alias emission for values that appear more
	// than once: repeats are dumped as inline copies, and genuinely
	// cyclic values fail with a CircularReference fault.
	NoRefs bool

	// SkipInvalid drops unrepresentable values (functions, channels)
	// instead of failing the dump.
	SkipInvalid bool

	// Styles overrides the output style per tag, e.g.
	// {"!!null": "canonical"} to render nulls as '~'. Keys may use the
	// '!!' shorthand or the full tag form.
	Styles map[string]string
}

const (
	defaultMaxDepth  = 1024
	defaultIndent    = 2
	defaultLineWidth = 80
)

// withDefaults returns a copy of o with unset fields filled in. A nil o
// yields all defaults.
func (o *Options) withDefaults() *Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Schema == nil {
		out.Schema = DefaultSchema
	}
	if out.MaxDepth <= 0 {
		out.MaxDepth = defaultMaxDepth
	}
	if out.Indent < 1 {
		out.Indent = defaultIndent
	}
	if o == nil || o.LineWidth == 0 {
		out.LineWidth = defaultLineWidth
	}
	if out.FlowLevel < 0 {
		out.FlowLevel = 0
	}
	if out.KeyComparator != nil {
		out.SortKeys = true
	}
	if len(out.Styles) > 0 {
		expanded := make(map[string]string, len(out.Styles))
		for tag, style := range out.Styles {
			expanded[expandStyleTag(tag)] = style
		}
		out.Styles = expanded
	}
	return &out
}

// expandStyleTag normalizes '!!name' shorthand to the full tag form.
func expandStyleTag(tag string) string {
	if strings.HasPrefix(tag, "!!") {
		return yamlTagPrefix + tag[2:]
	}
	return tag
}
