package yaml

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/shapestone/yamlkit/pkg/fault"
	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// dumper serializes a native value tree. Rendering is two-part: every node
// yields an inline fragment placed after "key:" or "- " on the current line,
// plus optional fully-indented follow-up lines. Block collections use only
// the follow-up lines; scalars and flow collections are inline.
type dumper struct {
	opts   *Options
	schema *Schema
	depth  int

	// shared maps the identity of multiply-referenced collections to their
	// anchor name, assigned on first emission.
	shared    map[uintptr]string
	anchorSeq int

	// active tracks the collections on the current render path, for cycle
	// detection when reference emission is off.
	active map[uintptr]bool
}

func dumpValue(value interface{}, opts *Options) (string, error) {
	d := &dumper{
		opts:   opts,
		schema: opts.Schema,
		shared: make(map[uintptr]string),
		active: make(map[uintptr]bool),
	}
	if !opts.NoRefs {
		counts := make(map[uintptr]int)
		countShared(value, counts, make(map[uintptr]bool))
		for id, n := range counts {
			if n > 1 {
				d.shared[id] = ""
			}
		}
	}

	inline, more, skip, err := d.renderNode(value, 0, false, false)
	if err != nil {
		return "", err
	}
	if skip {
		return "", nil
	}

	out := inline
	if more != "" {
		if out != "" {
			out += "\n"
		}
		out += more
	}
	return out + "\n", nil
}

func (d *dumper) renderNode(v interface{}, level int, inFlow, isKey bool) (inline, more string, skip bool, err error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.opts.MaxDepth {
		return "", "", false, fault.Newf(fault.DepthExceeded, fault.Mark{},
			"value nesting exceeds the maximum depth of %d", d.opts.MaxDepth)
	}

	id, isColl := collectionID(v)
	anchor := ""
	if isColl {
		if d.opts.NoRefs {
			if d.active[id] {
				return "", "", false, fault.New(fault.CircularReference,
					"cannot dump a cyclic value without references", fault.Mark{})
			}
		} else if name, multi := d.shared[id]; multi {
			if name != "" {
				return "*" + name, "", false, nil
			}
			d.anchorSeq++
			anchor = fmt.Sprintf("a%d", d.anchorSeq)
			d.shared[id] = anchor
		}
		d.active[id] = true
		defer delete(d.active, id)
	}

	// Collection keys render inline, in flow style.
	if isKey {
		inFlow = true
	}
	useFlow := inFlow || (d.opts.FlowLevel > 0 && level+1 >= d.opts.FlowLevel)

	switch val := v.(type) {
	case []interface{}:
		if useFlow {
			inline, err = d.renderFlowSequence(val, level, !isKey)
		} else {
			more, err = d.renderBlockSequence(val, level)
			if more == "" {
				inline = "[]"
			}
		}
	case *orderedmap.Map:
		if useFlow {
			inline, err = d.renderFlowMapping(val, level, !isKey)
		} else {
			more, err = d.renderBlockMapping(val, level)
			if more == "" {
				inline = "{}"
			}
		}
	default:
		inline, more, skip, err = d.renderScalar(v, level, inFlow, isKey)
	}
	if err != nil || skip {
		return "", "", skip, err
	}

	if anchor != "" {
		if inline != "" {
			inline = "&" + anchor + " " + inline
		} else {
			inline = "&" + anchor
		}
	}
	return inline, more, false, nil
}

func (d *dumper) renderBlockSequence(items []interface{}, level int) (string, error) {
	ind := d.indent(level)
	var lines []string
	for _, item := range items {
		inline, more, skip, err := d.renderNode(item, level+1, false, false)
		if err != nil {
			return "", err
		}
		if skip {
			continue
		}
		switch {
		case more == "":
			lines = append(lines, dashLine(ind, inline))
		case inline == "":
			// A nested block collection folds its first line onto the dash.
			lines = append(lines, d.compactItem(ind, level, more))
		default:
			lines = append(lines, dashLine(ind, inline), more)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func dashLine(ind, inline string) string {
	if inline == "" {
		return ind + "-"
	}
	return ind + "- " + inline
}

// compactItem rewrites the first line of a nested block rendering so it
// starts on the dash line, keeping the remaining lines untouched.
func (d *dumper) compactItem(ind string, level int, more string) string {
	first, rest, split := strings.Cut(more, "\n")
	first = strings.TrimPrefix(first, d.indent(level+1))
	line := ind + "-" + strings.Repeat(" ", d.opts.Indent-1) + first
	if !split {
		return line
	}
	return line + "\n" + rest
}

func (d *dumper) renderBlockMapping(m *orderedmap.Map, level int) (string, error) {
	ind := d.indent(level)
	var lines []string
	for _, item := range d.mappingItems(m) {
		keyInline, _, keySkip, err := d.renderNode(item.Key, level+1, false, true)
		if err != nil {
			return "", err
		}
		valInline, valMore, valSkip, err := d.renderNode(item.Value, level+1, false, false)
		if err != nil {
			return "", err
		}
		if keySkip || valSkip {
			continue
		}

		line := ind + keyInline + ":"
		if valInline != "" {
			line += " " + valInline
		}
		lines = append(lines, line)
		if valMore != "" {
			lines = append(lines, valMore)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (d *dumper) renderFlowSequence(items []interface{}, level int, wrap bool) (string, error) {
	var parts []string
	for _, item := range items {
		inline, _, skip, err := d.renderNode(item, level+1, true, false)
		if err != nil {
			return "", err
		}
		if skip {
			continue
		}
		parts = append(parts, inline)
	}
	return d.joinFlow("[", "]", parts, level, wrap), nil
}

func (d *dumper) renderFlowMapping(m *orderedmap.Map, level int, wrap bool) (string, error) {
	var parts []string
	for _, item := range d.mappingItems(m) {
		keyInline, _, keySkip, err := d.renderNode(item.Key, level+1, true, true)
		if err != nil {
			return "", err
		}
		valInline, _, valSkip, err := d.renderNode(item.Value, level+1, true, false)
		if err != nil {
			return "", err
		}
		if keySkip || valSkip {
			continue
		}
		parts = append(parts, keyInline+": "+valInline)
	}
	return d.joinFlow("{", "}", parts, level, wrap), nil
}

// joinFlow assembles a flow collection, breaking after commas when the
// one-line form would overflow the preferred width. Inside flow the scanner
// ignores line breaks, so the wrapped form loads identically. Mapping keys
// never wrap; they must stay on the line their ':' ends.
func (d *dumper) joinFlow(open, close string, parts []string, level int, wrap bool) string {
	oneLine := open + strings.Join(parts, ", ") + close
	if !wrap || len(parts) < 2 || d.opts.LineWidth <= 0 ||
		level*d.opts.Indent+len(oneLine) <= d.opts.LineWidth {
		return oneLine
	}
	sep := ",\n" + d.indent(level+1)
	return open + strings.Join(parts, sep) + close
}

// mappingItems returns the entries to dump, sorted when requested.
func (d *dumper) mappingItems(m *orderedmap.Map) []orderedmap.Item {
	items := m.Items()
	if !d.opts.SortKeys {
		return items
	}
	sorted := append([]orderedmap.Item(nil), items...)
	cmp := d.opts.KeyComparator
	if cmp == nil {
		cmp = defaultKeyCompare
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return cmp(sorted[i].Key, sorted[j].Key) < 0
	})
	return sorted
}

func defaultKeyCompare(a, b interface{}) int {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func (d *dumper) indent(level int) string {
	return strings.Repeat(" ", level*d.opts.Indent)
}

// collectionID returns a stable identity for values that can be shared
// between references. Empty slices have no backing array to share.
func collectionID(v interface{}) (uintptr, bool) {
	switch val := v.(type) {
	case *orderedmap.Map:
		return reflect.ValueOf(val).Pointer(), true
	case []interface{}:
		if len(val) == 0 {
			return 0, false
		}
		return reflect.ValueOf(val).Pointer(), true
	}
	return 0, false
}

// countShared walks the value graph counting references per collection
// identity. The seen set keeps the walk finite on cyclic values.
func countShared(v interface{}, counts map[uintptr]int, seen map[uintptr]bool) {
	id, ok := collectionID(v)
	if !ok {
		return
	}
	counts[id]++
	if seen[id] {
		return
	}
	seen[id] = true
	switch val := v.(type) {
	case []interface{}:
		for _, item := range val {
			countShared(item, counts, seen)
		}
	case *orderedmap.Map:
		val.Iterate(func(k, item interface{}) {
			countShared(k, counts, seen)
			countShared(item, counts, seen)
		})
	}
}
