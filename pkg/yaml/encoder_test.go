package yaml

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

func TestEncoderWritesDocumentStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)

	require.NoError(t, enc.Encode(pairs("a", 1)))
	require.NoError(t, enc.Encode("two"))

	requireText(t, "---\na: 1\n---\ntwo\n", buf.String())
}

func TestDecoderReadsDocumentStream(t *testing.T) {
	dec := NewDecoder(strings.NewReader("a: 1\n---\nb: 2\n"), nil)

	first, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, []interface{}{"a"}, first.(*orderedmap.Map).Keys())

	second, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, []interface{}{"b"}, second.(*orderedmap.Map).Keys())

	_, err = dec.Decode()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoderPropagatesLoadErrors(t *testing.T) {
	dec := NewDecoder(strings.NewReader("a: [1\n"), nil)
	_, err := dec.Decode()
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestEncoderDecoderRoundTrip(t *testing.T) {
	docs := []interface{}{
		pairs("name", "first", "n", 1),
		[]interface{}{1, 2, 3},
		"plain document",
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf, nil)
	for _, doc := range docs {
		require.NoError(t, enc.Encode(doc))
	}

	dec := NewDecoder(&buf, nil)
	for i := range docs {
		got, err := dec.Decode()
		require.NoError(t, err)
		switch i {
		case 0:
			require.Equal(t, []interface{}{"name", "n"}, got.(*orderedmap.Map).Keys())
		case 1:
			require.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, got)
		case 2:
			require.Equal(t, "plain document", got)
		}
	}
	_, err := dec.Decode()
	require.ErrorIs(t, err, io.EOF)
}
