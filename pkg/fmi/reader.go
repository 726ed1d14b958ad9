// Package fmi loads FMI-style plain-text road graphs and the benchmark
// test-case files that accompany them. The format carries five metadata
// skip-lines, a node count, an edge count, then one line per node and one
// per edge; only node ids, coordinates and the (source, target, cost)
// triple of each edge are consumed here.
package fmi

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"chway/pkg/graph"
)

// skipLines is the number of metadata header lines before the node count.
const skipLines = 5

// LoadGraph reads an FMI graph file from disk. Parse errors carry the
// 1-based line number of the offending line.
func LoadGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	g, err := ParseGraph(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseGraph reads an FMI graph from r.
func ParseGraph(r io.Reader) (*graph.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0

	next := func() (string, error) {
		for sc.Scan() {
			lineNo++
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		return "", fmt.Errorf("line %d: unexpected end of file", lineNo+1)
	}

	for i := 0; i < skipLines; i++ {
		if _, err := next(); err != nil {
			return nil, err
		}
	}

	countLine := func(what string) (uint64, error) {
		line, err := next()
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("line %d: bad %s count %q", lineNo, what, line)
		}
		return n, nil
	}

	numNodes, err := countLine("node")
	if err != nil {
		return nil, err
	}
	numEdges, err := countLine("edge")
	if err != nil {
		return nil, err
	}

	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)

	// Node line: id id2 latitude longitude elevation [level]. Only id,
	// latitude and longitude matter; levels in the file describe someone
	// else's hierarchy, ours are assigned during contraction.
	for i := uint64(0); i < numNodes; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, fmt.Errorf("line %d: node line has %d fields, want at least 5", lineNo, len(fields))
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil || id >= numNodes {
			return nil, fmt.Errorf("line %d: bad node id %q", lineNo, fields[0])
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad latitude %q", lineNo, fields[2])
		}
		lon, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad longitude %q", lineNo, fields[3])
		}
		nodeLat[id] = lat
		nodeLon[id] = lon
	}

	store := graph.NewStore(uint32(numNodes))

	// Edge line: source target cost type maxspeed. Type and maxspeed are
	// carried by the format but unused here.
	for i := uint64(0); i < numEdges; i++ {
		line, err := next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: edge line has %d fields, want at least 3", lineNo, len(fields))
		}
		source, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil || source >= numNodes {
			return nil, fmt.Errorf("line %d: bad edge source %q", lineNo, fields[0])
		}
		target, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil || target >= numNodes {
			return nil, fmt.Errorf("line %d: bad edge target %q", lineNo, fields[1])
		}
		cost, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad edge cost %q", lineNo, fields[2])
		}
		store.AddEdge(graph.Edge{
			Source: graph.NodeID(source),
			Target: graph.NodeID(target),
			Cost:   graph.Cost(cost),
			Middle: -1,
		})
	}

	log.Printf("loaded FMI graph: %d nodes, %d edges", numNodes, numEdges)
	return store.ToGraph(nodeLat, nodeLon), nil
}

// TestCase is one benchmark query: a source, a target, and the cost an
// independent reference implementation computed for the pair. A negative
// cost means the pair is unreachable.
type TestCase struct {
	Source graph.NodeID
	Target graph.NodeID
	Cost   int64
}

// Reachable reports whether the reference found any path for this case.
func (tc TestCase) Reachable() bool { return tc.Cost >= 0 }

// ReadTestCases reads a test-case file from disk: one case per line,
// whitespace-separated `source target expected_cost`. Blank lines are
// skipped.
func ReadTestCases(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open test file: %w", err)
	}
	defer f.Close()

	cases, err := ParseTestCases(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// ParseTestCases reads test cases from r.
func ParseTestCases(r io.Reader) ([]TestCase, error) {
	sc := bufio.NewScanner(r)
	var cases []TestCase
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: test case has %d fields, want 3", lineNo, len(fields))
		}
		source, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad source %q", lineNo, fields[0])
		}
		target, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad target %q", lineNo, fields[1])
		}
		cost, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad expected cost %q", lineNo, fields[2])
		}
		cases = append(cases, TestCase{
			Source: graph.NodeID(source),
			Target: graph.NodeID(target),
			Cost:   cost,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	return cases, nil
}
