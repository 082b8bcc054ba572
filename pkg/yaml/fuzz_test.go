package yaml

import (
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// fuzzAlphabet leans on the characters that force style decisions: blanks,
// breaks, indicators, quotes, and some multibyte runes.
var fuzzAlphabet = []rune("abcXYZ 09_-.:#'\"\\\n\t{}[],&*!|>%@`~?αβ☃")

func fuzzText(c fuzz.Continue) string {
	n := c.Intn(60)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(fuzzAlphabet[c.Intn(len(fuzzAlphabet))])
	}
	return b.String()
}

func newFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).Funcs(
		func(s *string, c fuzz.Continue) { *s = fuzzText(c) },
	)
}

func TestFuzzStringRoundTrip(t *testing.T) {
	f := newFuzzer(1)
	for i := 0; i < 500; i++ {
		var s string
		f.Fuzz(&s)

		out, err := Dump(pairs("v", s), nil)
		require.NoError(t, err, "value %q", s)

		back, err := Load(out, nil)
		require.NoError(t, err, "value %q dumped as %q", s, out)
		got, _ := back.(*orderedmap.Map).Get("v")
		require.Equal(t, s, got, "value %q dumped as %q", s, out)
	}
}

func TestFuzzDocumentRoundTrip(t *testing.T) {
	f := newFuzzer(2)
	for i := 0; i < 200; i++ {
		var keys [6]string
		f.Fuzz(&keys)
		var texts [6]string
		f.Fuzz(&texts)
		var nums [6]int64
		f.Fuzz(&nums)

		doc := orderedmap.NewMap()
		for j, key := range keys {
			switch j % 4 {
			case 0:
				doc.Set(key, nums[j])
			case 1:
				doc.Set(key, j%2 == 0)
			case 2:
				doc.Set(key, texts[j])
			case 3:
				doc.Set(key, []interface{}{texts[j], nums[j]})
			}
		}

		out, err := Dump(doc, nil)
		require.NoError(t, err)
		back, err := Load(out, nil)
		require.NoError(t, err, "dumped as %q", out)
		require.Equal(t, doc, back, "dumped as %q", out)
	}
}
