// Command compare_benchmarks summarizes a `go test -bench` run of the
// pkg/yaml benchmarks, pairing each yamlkit benchmark with its yaml.v3
// counterpart and reporting the speed and allocation ratios.
//
// Usage:
//
//	go test -bench . -benchmem ./pkg/yaml > bench.txt
//	go run ./scripts/compare_benchmarks bench.txt
//
// With no argument the benchmark output is read from stdin, so the two
// commands can be piped together.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// result holds one parsed benchmark line.
type result struct {
	name    string
	nsPerOp float64
	bPerOp  float64
	allocs  float64
}

const rivalPrefix = "BenchmarkYAMLv3"

func main() {
	in := os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fatal("open %s: %v", os.Args[1], err)
		}
		defer f.Close()
		in = f
	}

	results, err := parseBenchOutput(in)
	if err != nil {
		fatal("parse benchmark output: %v", err)
	}
	if len(results) == 0 {
		fatal("no benchmark lines found (run with -bench . -benchmem)")
	}

	ours := map[string]result{}
	rivals := map[string]result{}
	var order []string
	for _, r := range results {
		if strings.HasPrefix(r.name, rivalPrefix) {
			rivals[r.name[len(rivalPrefix):]] = r
			continue
		}
		op := r.name[len("Benchmark"):]
		ours[op] = r
		order = append(order, op)
	}

	fmt.Println("Benchmark Comparison: yamlkit vs gopkg.in/yaml.v3")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Printf("%-12s %14s %14s %8s %10s %10s\n",
		"operation", "yamlkit ns/op", "yaml.v3 ns/op", "ratio", "B/op", "allocs/op")

	for _, op := range order {
		mine := ours[op]
		rival, ok := rivals[op]
		if !ok {
			fmt.Printf("%-12s %14.0f %14s %8s %10.0f %10.0f\n",
				op, mine.nsPerOp, "-", "-", mine.bPerOp, mine.allocs)
			continue
		}
		fmt.Printf("%-12s %14.0f %14.0f %7.2fx %10.0f %10.0f\n",
			op, mine.nsPerOp, rival.nsPerOp, mine.nsPerOp/rival.nsPerOp,
			mine.bPerOp, mine.allocs)
	}

	fmt.Println()
	fmt.Println("ratio < 1.00x means yamlkit is faster for that operation.")
}

// parseBenchOutput extracts benchmark result lines. A line looks like:
//
//	BenchmarkLoad-8   50000   23456 ns/op   8192 B/op   120 allocs/op
//
// The GOMAXPROCS suffix is stripped from the name; B/op and allocs/op are
// optional (present only with -benchmem).
func parseBenchOutput(r io.Reader) ([]result, error) {
	var results []result
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[3] != "ns/op" {
			continue
		}

		name := fields[0]
		if i := strings.LastIndex(name, "-"); i > 0 {
			name = name[:i]
		}

		ns, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %q: %v", line, err)
		}

		res := result{name: name, nsPerOp: ns}
		for i := 4; i+1 < len(fields); i += 2 {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			switch fields[i+1] {
			case "B/op":
				res.bPerOp = v
			case "allocs/op":
				res.allocs = v
			}
		}
		results = append(results, res)
	}
	return results, scanner.Err()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}
