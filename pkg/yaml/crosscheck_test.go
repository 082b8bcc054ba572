package yaml

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// The cross-check tests feed our dump output to gopkg.in/yaml.v3 and make
// sure an independent parser reads the same values back. yaml.v3 decodes
// integers as int and mappings as map[string]interface{}, so expectations
// here use those shapes.

func crossLoad(t *testing.T, text string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, yamlv3.Unmarshal([]byte(text), &v), "input %q", text)
	return v
}

func TestCrossCheckDocument(t *testing.T) {
	doc := pairs(
		"name", "yamlkit",
		"port", 8080,
		"debug", true,
		"ratio", 0.25,
		"empty", nil,
		"tags", []interface{}{"fast", "small"},
		"limits", pairs("rps", 100, "burst", 250),
	)

	out := mustDump(t, doc, nil)
	got := crossLoad(t, out)

	require.Equal(t, map[string]interface{}{
		"name":  "yamlkit",
		"port":  8080,
		"debug": true,
		"ratio": 0.25,
		"empty": nil,
		"tags":  []interface{}{"fast", "small"},
		"limits": map[string]interface{}{
			"rps":   100,
			"burst": 250,
		},
	}, got)
}

func TestCrossCheckStringStyles(t *testing.T) {
	values := []string{
		"hello world",
		"",
		"true",
		"123",
		"1.5",
		"a: b",
		"# leading hash",
		"it's",
		"'leading quote",
		"-dash",
		"tab\there",
		"line1\nline2",
		"line1\nline2\n",
		"line1\n\n\n",
		" indented\nrest",
		strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 12)),
	}
	for _, value := range values {
		out := mustDump(t, pairs("v", value), nil)
		got := crossLoad(t, out)
		require.Equal(t, map[string]interface{}{"v": value}, got,
			"value %q dumped as %q", value, out)
	}
}

func TestCrossCheckFlowStyle(t *testing.T) {
	doc := pairs("a", []interface{}{1, 2}, "b", pairs("c", 3))
	out := mustDump(t, doc, &Options{FlowLevel: 1})
	got := crossLoad(t, out)
	require.Equal(t, map[string]interface{}{
		"a": []interface{}{1, 2},
		"b": map[string]interface{}{"c": 3},
	}, got)
}

func TestCrossCheckAnchors(t *testing.T) {
	shared := pairs("k", 1)
	out := mustDump(t, pairs("a", shared, "b", shared), nil)
	got := crossLoad(t, out)
	require.Equal(t, map[string]interface{}{
		"a": map[string]interface{}{"k": 1},
		"b": map[string]interface{}{"k": 1},
	}, got)
}

func TestCrossCheckDocumentStream(t *testing.T) {
	out, err := DumpAll([]interface{}{
		pairs("n", 1),
		"two",
		[]interface{}{3},
	}, nil)
	require.NoError(t, err)

	dec := yamlv3.NewDecoder(strings.NewReader(out))
	var docs []interface{}
	for {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		docs = append(docs, v)
	}
	require.Equal(t, []interface{}{
		map[string]interface{}{"n": 1},
		"two",
		[]interface{}{3},
	}, docs)
}

func TestCrossCheckLoadAgainstThirdParty(t *testing.T) {
	// The reverse direction: yaml.v3's encoder output loads with ours.
	src, err := yamlv3.Marshal(map[string]interface{}{
		"name": "yamlkit",
		"n":    7,
	})
	require.NoError(t, err)

	got := mustLoad(t, string(src))
	m := got.(*orderedmap.Map)
	name, _ := m.Get("name")
	require.Equal(t, "yamlkit", name)
	n, _ := m.Get("n")
	require.Equal(t, int64(7), n)
}
