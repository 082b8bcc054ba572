package yaml

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

type serverConfig struct {
	Name     string
	Port     int
	Debug    bool              `yaml:"debug,omitempty"`
	Tags     []string          `yaml:"tags,omitempty"`
	Limits   map[string]int    `yaml:"limits,omitempty"`
	Internal string            `yaml:"-"`
	Extra    map[string]string `yaml:",omitempty"`
}

func TestMarshalStruct(t *testing.T) {
	cfg := serverConfig{Name: "api", Port: 8080, Internal: "hidden"}
	out, err := Marshal(cfg)
	require.NoError(t, err)
	requireText(t, "name: api\nport: 8080\n", string(out))
}

func TestMarshalStructKeepsFieldOrder(t *testing.T) {
	cfg := serverConfig{
		Name: "api",
		Port: 8080,
		Tags: []string{"web", "edge"},
	}
	out, err := Marshal(cfg)
	require.NoError(t, err)
	want := strings.Join([]string{
		"name: api",
		"port: 8080",
		"tags:",
		"  - web",
		"  - edge",
		"",
	}, "\n")
	requireText(t, want, string(out))
}

func TestMarshalMapSortsKeys(t *testing.T) {
	out, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	requireText(t, "a: 1\nb: 2\nc: 3\n", string(out))
}

func TestMarshalNilValues(t *testing.T) {
	out, err := Marshal(nil)
	require.NoError(t, err)
	require.Equal(t, "null\n", string(out))

	var p *int
	out, err = Marshal(p)
	require.NoError(t, err)
	require.Equal(t, "null\n", string(out))
}

func TestMarshalUnsupportedType(t *testing.T) {
	_, err := Marshal(make(chan int))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type")
}

func TestUnmarshalStruct(t *testing.T) {
	input := strings.Join([]string{
		"name: api",
		"port: 8080",
		"debug: true",
		"tags:",
		"  - web",
		"limits:",
		"  rps: 100",
		"",
	}, "\n")

	var cfg serverConfig
	require.NoError(t, Unmarshal([]byte(input), &cfg))
	require.Equal(t, serverConfig{
		Name:   "api",
		Port:   8080,
		Debug:  true,
		Tags:   []string{"web"},
		Limits: map[string]int{"rps": 100},
	}, cfg)
}

func TestUnmarshalIgnoresUnknownKeys(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, Unmarshal([]byte("name: api\nnosuch: 1\n"), &cfg))
	require.Equal(t, "api", cfg.Name)
}

func TestUnmarshalIntoInterface(t *testing.T) {
	var v interface{}
	require.NoError(t, Unmarshal([]byte("a: 1\nb: [x]\n"), &v))
	m, ok := v.(*orderedmap.Map)
	require.True(t, ok)
	require.Equal(t, []interface{}{"a", "b"}, m.Keys())
}

func TestUnmarshalErrors(t *testing.T) {
	require.Error(t, Unmarshal([]byte("1"), nil))

	var notPtr serverConfig
	require.Error(t, Unmarshal([]byte("name: x"), notPtr))

	var port int8
	err := Unmarshal([]byte("1000"), &port)
	require.Error(t, err)
	require.Contains(t, err.Error(), "overflows")

	var n int
	err = Unmarshal([]byte("not a number"), &n)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot unmarshal")
}

func TestUnmarshalAllocatesPointers(t *testing.T) {
	type wrapper struct {
		Inner *serverConfig
	}
	var w wrapper
	require.NoError(t, Unmarshal([]byte("inner:\n  name: api\n"), &w))
	require.NotNil(t, w.Inner)
	require.Equal(t, "api", w.Inner.Name)

	require.NoError(t, Unmarshal([]byte("inner:\n"), &w))
	require.Nil(t, w.Inner)
}

func TestMarshalRoundTripWithNativeTypes(t *testing.T) {
	type record struct {
		When time.Time
		Blob []byte
	}
	in := record{
		When: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Blob: []byte{1, 2, 3},
	}

	out, err := Marshal(in)
	require.NoError(t, err)

	var back record
	require.NoError(t, Unmarshal(out, &back))
	require.True(t, in.When.Equal(back.When))
	require.Equal(t, in.Blob, back.Blob)
}

// temperature marshals itself as a "<degrees>C" scalar.
type temperature struct {
	celsius float64
}

func (t temperature) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("%vC", t.celsius), nil
}

func (t *temperature) UnmarshalYAML(value interface{}) error {
	text, ok := value.(string)
	if !ok || !strings.HasSuffix(text, "C") {
		return fmt.Errorf("not a temperature: %v", value)
	}
	c, err := strconv.ParseFloat(strings.TrimSuffix(text, "C"), 64)
	if err != nil {
		return err
	}
	t.celsius = c
	return nil
}

func TestMarshalerInterfaces(t *testing.T) {
	out, err := Marshal(map[string]temperature{"cpu": {celsius: 71.5}})
	require.NoError(t, err)
	requireText(t, "cpu: 71.5C\n", string(out))

	var back map[string]temperature
	require.NoError(t, Unmarshal(out, &back))
	require.Equal(t, 71.5, back["cpu"].celsius)

	var bad temperature
	require.Error(t, Unmarshal([]byte("12F"), &bad))
}
