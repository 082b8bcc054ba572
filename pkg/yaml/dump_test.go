package yaml

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamlkit/pkg/fault"
	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

func pairs(kv ...interface{}) *orderedmap.Map {
	m := orderedmap.NewMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

func mustDump(t *testing.T, value interface{}, opts *Options) string {
	t.Helper()
	out, err := Dump(value, opts)
	require.NoError(t, err)
	return out
}

func TestDumpScalars(t *testing.T) {
	require.Equal(t, "null\n", mustDump(t, nil, nil))
	require.Equal(t, "true\n", mustDump(t, true, nil))
	require.Equal(t, "42\n", mustDump(t, 42, nil))
	require.Equal(t, "-7\n", mustDump(t, int64(-7), nil))
	require.Equal(t, "2.5\n", mustDump(t, 2.5, nil))
	require.Equal(t, "1.0\n", mustDump(t, 1.0, nil))
	require.Equal(t, ".inf\n", mustDump(t, mustLoad(t, ".inf"), nil))
	require.Equal(t, "hello\n", mustDump(t, "hello", nil))
}

func TestDumpStringQuoting(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"hello world", "hello world\n"},
		{"", "''\n"},
		{"true", "'true'\n"},
		{"123", "'123'\n"},
		{"2024-01-15", "'2024-01-15'\n"},
		{"# not a comment", "'# not a comment'\n"},
		{"a: b", "'a: b'\n"},
		{"it's", "it's\n"},
		{"'leading quote", "'''leading quote'\n"},
		{"-dash", "'-dash'\n"},
		{"tab\there", "\"tab\\there\"\n"},
		{"bell\a", "\"bell\\x07\"\n"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, mustDump(t, tc.value, nil), "value %q", tc.value)
	}
}

func TestDumpMultilineStringsUseLiteralBlocks(t *testing.T) {
	out := mustDump(t, pairs("text", "line1\nline2"), nil)
	requireText(t, "text: |-\n  line1\n  line2\n", out)

	out = mustDump(t, pairs("text", "line1\nline2\n"), nil)
	requireText(t, "text: |\n  line1\n  line2\n", out)

	out = mustDump(t, pairs("text", "line1\n\n\n"), nil)
	requireText(t, "text: |+\n  line1\n\n\n", out)
}

func TestDumpLeadingSpaceGetsIndentIndicator(t *testing.T) {
	out := mustDump(t, pairs("text", " indented\nrest"), nil)
	requireText(t, "text: |2-\n   indented\n  rest\n", out)

	back := mustLoad(t, out)
	got, _ := back.(*orderedmap.Map).Get("text")
	require.Equal(t, " indented\nrest", got)

	// Leading blank lines must not hide the indicator: without it the
	// loader would lock onto the deeper first content line.
	out = mustDump(t, pairs("text", "\n word\nrest"), nil)
	requireText(t, "text: |2-\n\n   word\n  rest\n", out)

	back = mustLoad(t, out)
	got, _ = back.(*orderedmap.Map).Get("text")
	require.Equal(t, "\n word\nrest", got)
}

func TestDumpLongStringFolds(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 12))
	out := mustDump(t, pairs("text", long), nil)
	require.Contains(t, out, ">-")
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 80, "line %q", line)
	}

	back := mustLoad(t, out)
	got, _ := back.(*orderedmap.Map).Get("text")
	require.Equal(t, long, got)
}

func TestDumpLineWidthDisabled(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 12))
	out := mustDump(t, pairs("text", long), &Options{LineWidth: -1})
	requireText(t, "text: "+long+"\n", out)
}

func TestDumpStylesOption(t *testing.T) {
	m := pairs("mask", 255, "flag", nil)
	out := mustDump(t, m, &Options{Styles: map[string]string{
		"!!int":  "hexadecimal",
		"!!null": "canonical",
	}})
	requireText(t, "mask: 0xff\nflag: ~\n", out)
}

func TestDumpNullEmptyStyle(t *testing.T) {
	out := mustDump(t, pairs("flag", nil), &Options{Styles: map[string]string{"!!null": "empty"}})
	requireText(t, "flag:\n", out)
}

func TestDumpNestedCollections(t *testing.T) {
	doc := pairs(
		"server", pairs("host", "example.com", "ports", []interface{}{8080, 8443}),
		"tags", []interface{}{"a", "b"},
	)
	want := strings.Join([]string{
		"server:",
		"  host: example.com",
		"  ports:",
		"    - 8080",
		"    - 8443",
		"tags:",
		"  - a",
		"  - b",
		"",
	}, "\n")
	requireText(t, want, mustDump(t, doc, nil))
}

func TestDumpSequenceOfMappings(t *testing.T) {
	doc := pairs("jobs", []interface{}{
		pairs("name", "build", "retries", 2),
		pairs("name", "test"),
	})
	want := strings.Join([]string{
		"jobs:",
		"  - name: build",
		"    retries: 2",
		"  - name: test",
		"",
	}, "\n")
	requireText(t, want, mustDump(t, doc, nil))
}

func TestDumpIndentOption(t *testing.T) {
	doc := pairs("a", pairs("b", 1))
	requireText(t, "a:\n    b: 1\n", mustDump(t, doc, &Options{Indent: 4}))
}

func TestDumpFlowLevel(t *testing.T) {
	doc := pairs("a", []interface{}{1, 2}, "b", pairs("c", 3))

	out := mustDump(t, doc, &Options{FlowLevel: 1})
	requireText(t, "{a: [1, 2], b: {c: 3}}\n", out)

	out = mustDump(t, doc, &Options{FlowLevel: 2})
	requireText(t, "a: [1, 2]\nb: {c: 3}\n", out)
}

func TestDumpFlowWrapsAtLineWidth(t *testing.T) {
	doc := pairs(
		"alpha", strings.Repeat("a", 25),
		"bravo", strings.Repeat("b", 25),
		"charlie", strings.Repeat("c", 25),
	)

	out := mustDump(t, doc, &Options{FlowLevel: 1, LineWidth: 40})
	want := strings.Join([]string{
		"{alpha: " + strings.Repeat("a", 25) + ",",
		"  bravo: " + strings.Repeat("b", 25) + ",",
		"  charlie: " + strings.Repeat("c", 25) + "}",
		"",
	}, "\n")
	requireText(t, want, out)
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), 40, "line %q", line)
	}

	back := mustLoad(t, out)
	require.Equal(t, doc, back)

	// Within the width the one-line form stands.
	short := pairs("a", []interface{}{1, 2})
	requireText(t, "{a: [1, 2]}\n", mustDump(t, short, &Options{FlowLevel: 1, LineWidth: 40}))
}

func TestDumpEmptyCollections(t *testing.T) {
	require.Equal(t, "{}\n", mustDump(t, orderedmap.NewMap(), nil))
	require.Equal(t, "[]\n", mustDump(t, []interface{}{}, nil))
	requireText(t, "a: {}\nb: []\n", mustDump(t, pairs("a", orderedmap.NewMap(), "b", []interface{}{}), nil))
}

func TestDumpAnchorsForSharedValues(t *testing.T) {
	shared := pairs("k", 1)
	doc := pairs("a", shared, "b", shared)

	out := mustDump(t, doc, nil)
	requireText(t, "a: &a1\n  k: 1\nb: *a1\n", out)

	back := mustLoad(t, out)
	m := back.(*orderedmap.Map)
	a, _ := m.Get("a")
	b, _ := m.Get("b")
	require.Same(t, a, b)
}

func TestDumpNoRefsCopies(t *testing.T) {
	shared := pairs("k", 1)
	doc := pairs("a", shared, "b", shared)
	out := mustDump(t, doc, &Options{NoRefs: true})
	requireText(t, "a:\n  k: 1\nb:\n  k: 1\n", out)
}

func TestDumpCyclicValue(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("self", m)

	out := mustDump(t, m, nil)
	requireText(t, "&a1\nself: *a1\n", out)

	back := mustLoad(t, out)
	self, _ := back.(*orderedmap.Map).Get("self")
	require.Same(t, back, self)

	_, err := Dump(m, &Options{NoRefs: true})
	require.Error(t, err)
	require.Equal(t, fault.CircularReference, fault.CodeOf(err))
}

func TestDumpUnrepresentableValue(t *testing.T) {
	_, err := Dump(pairs("f", func() {}), nil)
	require.Error(t, err)
	require.Equal(t, fault.Unrepresentable, fault.CodeOf(err))
	require.NotContains(t, err.Error(), "line")
}

func TestDumpSkipInvalid(t *testing.T) {
	doc := pairs("a", 1, "f", func() {})
	out := mustDump(t, doc, &Options{SkipInvalid: true})
	requireText(t, "a: 1\n", out)

	out = mustDump(t, []interface{}{1, func() {}, 3}, &Options{SkipInvalid: true})
	requireText(t, "- 1\n- 3\n", out)

	out = mustDump(t, func() {}, &Options{SkipInvalid: true})
	require.Equal(t, "", out)
}

func TestDumpBinaryRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xfe, 0xff}
	out := mustDump(t, pairs("blob", raw), nil)
	require.Contains(t, out, "!!binary")

	back := mustLoad(t, out)
	got, _ := back.(*orderedmap.Map).Get("blob")
	require.Equal(t, raw, got)
}

func TestDumpTimestamp(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	requireText(t, "date: 2024-01-15\n", mustDump(t, pairs("date", day), nil))

	back := mustLoad(t, "date: 2024-01-15\n")
	got, _ := back.(*orderedmap.Map).Get("date")
	require.Equal(t, day, got)
}

func TestDumpNonStringKeys(t *testing.T) {
	doc := pairs(int64(1), "one", true, "two")
	out := mustDump(t, doc, nil)
	requireText(t, "1: one\ntrue: two\n", out)

	back := mustLoad(t, out)
	m := back.(*orderedmap.Map)
	one, ok := m.Get(int64(1))
	require.True(t, ok)
	require.Equal(t, "one", one)
}

func TestDumpMultilineStringAtRoot(t *testing.T) {
	out := mustDump(t, "line1\nline2", nil)
	requireText(t, "|-\n  line1\n  line2\n", out)
	require.Equal(t, "line1\nline2", mustLoad(t, out))

	long := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 12))
	out = mustDump(t, long, nil)
	require.Contains(t, out, ">-")
	require.Equal(t, long, mustLoad(t, out))
}
