package yaml

import (
	"strings"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

var benchSource = strings.Join([]string{
	"name: benchmark",
	"version: \"1.0\"",
	"enabled: true",
	"count: 42",
	"tags:",
	"  - fast",
	"  - small",
	"limits:",
	"  rps: 100",
	"  burst: 250",
	"notes: |",
	"  first line",
	"  second line",
	"",
}, "\n")

type benchConfig struct {
	Name    string         `yaml:"name"`
	Version string         `yaml:"version"`
	Enabled bool           `yaml:"enabled"`
	Count   int            `yaml:"count"`
	Tags    []string       `yaml:"tags"`
	Limits  map[string]int `yaml:"limits"`
	Notes   string         `yaml:"notes"`
}

func benchValue(b *testing.B) interface{} {
	b.Helper()
	value, err := Load(benchSource, nil)
	if err != nil {
		b.Fatal(err)
	}
	return value
}

func BenchmarkLoad(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Load(benchSource, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDump(b *testing.B) {
	value := benchValue(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Dump(value, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	data := []byte(benchSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg benchConfig
		if err := Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal(b *testing.B) {
	var cfg benchConfig
	if err := Unmarshal([]byte(benchSource), &cfg); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Marshal(cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	value := benchValue(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := Dump(value, nil)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Load(out, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// Comparison benchmarks against gopkg.in/yaml.v3, which is a test-only
// dependency. Run both sets with scripts/compare_benchmarks for a report.

func BenchmarkYAMLv3Unmarshal(b *testing.B) {
	data := []byte(benchSource)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var cfg benchConfig
		if err := yamlv3.Unmarshal(data, &cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkYAMLv3Marshal(b *testing.B) {
	var cfg benchConfig
	if err := yamlv3.Unmarshal([]byte(benchSource), &cfg); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := yamlv3.Marshal(cfg); err != nil {
			b.Fatal(err)
		}
	}
}
