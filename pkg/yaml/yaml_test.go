package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k14s/difflib"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamlkit/pkg/fault"
	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

func mustLoad(t *testing.T, input string) interface{} {
	t.Helper()
	value, err := Load(input, nil)
	require.NoError(t, err)
	return value
}

func requireText(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		t.Fatalf("output mismatch:\n%s",
			difflib.PPDiff(strings.Split(want, "\n"), strings.Split(got, "\n")))
	}
}

func TestLoadScalars(t *testing.T) {
	require.Equal(t, int64(42), mustLoad(t, "42"))
	require.Equal(t, 3.5, mustLoad(t, "3.5"))
	require.Equal(t, true, mustLoad(t, "true"))
	require.Equal(t, nil, mustLoad(t, "~"))
	require.Equal(t, "hello world", mustLoad(t, "hello world"))
}

func TestLoadEmptyStream(t *testing.T) {
	require.Nil(t, mustLoad(t, ""))
	require.Nil(t, mustLoad(t, "# only a comment\n"))
}

func TestLoadMappingKeepsKeyOrder(t *testing.T) {
	value := mustLoad(t, "zebra: 1\napple: 2\nmango: 3\n")
	m, ok := value.(*orderedmap.Map)
	require.True(t, ok)
	require.Equal(t, []interface{}{"zebra", "apple", "mango"}, m.Keys())
}

func TestLoadFoldedScalar(t *testing.T) {
	value := mustLoad(t, "folded: >\n  a\n  b\n  c\n")
	m := value.(*orderedmap.Map)
	text, _ := m.Get("folded")
	require.Equal(t, "a b c\n", text)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	_, err := Load("a: 1\n---\nb: 2\n", nil)
	require.Error(t, err)
	require.Equal(t, fault.Parser, fault.CodeOf(err))
	require.Contains(t, err.Error(), "single document")
}

func TestLoadAll(t *testing.T) {
	values, err := LoadAll("---\n1\n---\ntwo\n---\n[3]\n", nil)
	require.NoError(t, err)
	require.Equal(t, []interface{}{int64(1), "two", []interface{}{int64(3)}}, values)
}

func TestEachDocumentDeliversEarlierDocuments(t *testing.T) {
	var got []interface{}
	err := EachDocument("first: 1\n---\n!!int oops\n", nil, func(value interface{}) error {
		got = append(got, value)
		return nil
	})
	require.Error(t, err)
	require.Equal(t, fault.Construct, fault.CodeOf(err))
	require.Len(t, got, 1)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate("a: 1\n---\nb: [2, 3]\n", nil))
	require.Error(t, Validate("a: [1\n", nil))
}

func TestDumpKeepsKeyOrder(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)

	out, err := Dump(m, nil)
	require.NoError(t, err)
	requireText(t, "b: 1\na: 2\nc: 3\n", out)
}

func TestDumpSortKeys(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)

	out, err := Dump(m, &Options{SortKeys: true})
	require.NoError(t, err)
	requireText(t, "a: 2\nb: 1\nc: 3\n", out)
}

func TestDumpKeyComparator(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)

	out, err := Dump(m, &Options{
		KeyComparator: func(a, b interface{}) int {
			return strings.Compare(b.(string), a.(string))
		},
	})
	require.NoError(t, err)
	requireText(t, "c: 3\nb: 1\na: 2\n", out)
}

func TestRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"server:",
		"  host: example.com",
		"  ports:",
		"    - 8080",
		"    - 8443",
		"  tls: true",
		"  timeout: 2.5",
		"banner: |",
		"  hello",
		"  world",
		"note: 'yes'",
		"",
	}, "\n")

	first := mustLoad(t, input)
	out, err := Dump(first, nil)
	require.NoError(t, err)
	second, err := Load(out, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadErrorsReferenceFilename(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("testdata", "bad"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		name := entry.Name()
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", "bad", name))
			require.NoError(t, err)

			_, err = Load(string(data), &Options{Filename: name})
			require.Error(t, err)
			require.NotEmpty(t, fault.CodeOf(err))
			require.Contains(t, err.Error(), name)
			require.Contains(t, err.Error(), "FormatException")
		})
	}
}

func TestLoadDepthGuard(t *testing.T) {
	input := strings.Repeat("[", 50) + strings.Repeat("]", 50)
	_, err := Load(input, &Options{MaxDepth: 10})
	require.Error(t, err)
	require.Equal(t, fault.DepthExceeded, fault.CodeOf(err))

	_, err = Load(input, nil)
	require.NoError(t, err)
}

func TestDumpDepthGuard(t *testing.T) {
	var value interface{} = "leaf"
	for i := 0; i < 10; i++ {
		value = []interface{}{value}
	}
	_, err := Dump(value, &Options{MaxDepth: 5})
	require.Error(t, err)
	require.Equal(t, fault.DepthExceeded, fault.CodeOf(err))
}

func TestDumpAllRoundTrip(t *testing.T) {
	docs := []interface{}{int64(1), "two", []interface{}{int64(3)}}
	out, err := DumpAll(docs, nil)
	require.NoError(t, err)
	requireText(t, "---\n1\n---\ntwo\n---\n- 3\n", out)

	back, err := LoadAll(out, nil)
	require.NoError(t, err)
	require.Equal(t, docs, back)
}
