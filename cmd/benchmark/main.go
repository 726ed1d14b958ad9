package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"chway/pkg/ch"
	"chway/pkg/fmi"
	"chway/pkg/graph"
)

func main() {
	graphPath := flag.String("graph", "", "Path to FMI graph file")
	queriesPath := flag.String("queries", "", "Path to test-case file (source target expected_cost per line)")
	random := flag.Int("random", 0, "Number of random (source, target) pairs to check against plain Dijkstra")
	budget := flag.Duration("budget", -1, "Contraction time budget (negative = unlimited)")
	seed := flag.Int64("seed", 1, "Shuffle seed for deterministic contraction")
	prune := flag.Bool("prune-shortcuts", false, "Enable the redundant-shortcut post-pass")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: benchmark --graph <file.fmi> [--queries <file.que> | --random N] [--budget 1m] [--seed 1]")
		os.Exit(1)
	}
	if *queriesPath == "" && *random == 0 {
		*random = 1000
	}

	g, err := fmi.LoadGraph(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	opts := ch.DefaultContractOptions()
	opts.TimeBudget = *budget
	opts.Seed = *seed
	opts.PruneRedundantShortcuts = *prune

	start := time.Now()
	chg := ch.Contract(g, opts)
	log.Printf("Contraction took %s: %d fwd edges, %d bwd edges",
		time.Since(start).Round(time.Millisecond), len(chg.FwdHead), len(chg.BwdHead))

	var cases []fmi.TestCase
	if *queriesPath != "" {
		cases, err = fmi.ReadTestCases(*queriesPath)
		if err != nil {
			log.Fatalf("Failed to load test cases: %v", err)
		}
	} else {
		if g.NumNodes == 0 {
			log.Fatal("graph has no nodes; nothing to benchmark")
		}
		rng := rand.New(rand.NewSource(*seed))
		for i := 0; i < *random; i++ {
			cases = append(cases, fmi.TestCase{
				Source: graph.NodeID(rng.Intn(int(g.NumNodes))),
				Target: graph.NodeID(rng.Intn(int(g.NumNodes))),
				Cost:   -2, // filled from the reference below
			})
		}
	}

	engine := ch.NewQueryEngine(chg)
	ref := newReferenceDijkstra(g)

	var (
		mismatches   int
		chTime       time.Duration
		refTime      time.Duration
		chSettled    int64
		refSettled   int64
		settledRatio int // cases where CH settled more nodes than plain Dijkstra
	)

	for i, tc := range cases {
		if tc.Source >= g.NumNodes || tc.Target >= g.NumNodes {
			log.Printf("case %d: node id out of range (%d, %d), skipping", i, tc.Source, tc.Target)
			continue
		}

		t0 := time.Now()
		got := engine.Query(tc.Source, tc.Target)
		chTime += time.Since(t0)
		chSettled += int64(got.Settled)

		want := tc.Cost
		if want < -1 {
			t0 = time.Now()
			refCost, settled := ref.run(tc.Source, tc.Target)
			refTime += time.Since(t0)
			refSettled += int64(settled)
			if got.Settled > settled {
				settledRatio++
			}
			if refCost == graph.MaxCost {
				want = -1
			} else {
				want = int64(refCost)
			}
		}

		switch {
		case want < 0 && got.Found:
			mismatches++
			log.Printf("case %d: %d -> %d: got cost %d, want unreachable", i, tc.Source, tc.Target, got.Cost)
		case want >= 0 && !got.Found:
			mismatches++
			log.Printf("case %d: %d -> %d: got unreachable, want cost %d", i, tc.Source, tc.Target, want)
		case want >= 0 && int64(got.Cost) != want:
			mismatches++
			log.Printf("case %d: %d -> %d: got cost %d, want %d", i, tc.Source, tc.Target, got.Cost, want)
		}
	}

	n := len(cases)
	log.Printf("%d queries, %d mismatches", n, mismatches)
	if n > 0 {
		log.Printf("CH query: %s avg, %.0f nodes settled avg", (chTime / time.Duration(n)).Round(time.Microsecond), float64(chSettled)/float64(n))
	}
	if refTime > 0 {
		log.Printf("Plain Dijkstra: %s avg, %.0f nodes settled avg", (refTime / time.Duration(n)).Round(time.Microsecond), float64(refSettled)/float64(n))
		log.Printf("CH settled more nodes than plain Dijkstra on %d/%d cases", settledRatio, n)
	}
	if mismatches > 0 {
		os.Exit(1)
	}
}

// referenceDijkstra is an independent single-direction Dijkstra over the
// original CSR graph, used as the ground truth for random query pairs. It
// deliberately shares no code with pkg/ch.
type referenceDijkstra struct {
	g       *graph.Graph
	cost    []graph.Cost
	touched []graph.NodeID
	heap    []refItem
}

type refItem struct {
	node graph.NodeID
	cost graph.Cost
}

func newReferenceDijkstra(g *graph.Graph) *referenceDijkstra {
	cost := make([]graph.Cost, g.NumNodes)
	for i := range cost {
		cost[i] = graph.MaxCost
	}
	return &referenceDijkstra{g: g, cost: cost}
}

func (d *referenceDijkstra) run(s, t graph.NodeID) (graph.Cost, int) {
	for _, n := range d.touched {
		d.cost[n] = graph.MaxCost
	}
	d.touched = d.touched[:0]
	d.heap = d.heap[:0]

	d.cost[s] = 0
	d.touched = append(d.touched, s)
	d.push(refItem{s, 0})
	settled := 0

	for len(d.heap) > 0 {
		cur := d.pop()
		if cur.cost > d.cost[cur.node] {
			continue
		}
		settled++
		if cur.node == t {
			return cur.cost, settled
		}
		start, end := d.g.EdgesFrom(cur.node)
		for e := start; e < end; e++ {
			w := d.g.Head[e]
			nc := cur.cost + d.g.Weight[e]
			if nc < d.cost[w] {
				if d.cost[w] == graph.MaxCost {
					d.touched = append(d.touched, w)
				}
				d.cost[w] = nc
				d.push(refItem{w, nc})
			}
		}
	}
	return graph.MaxCost, settled
}

func (d *referenceDijkstra) push(it refItem) {
	d.heap = append(d.heap, it)
	i := len(d.heap) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if d.heap[i].cost >= d.heap[parent].cost {
			break
		}
		d.heap[i], d.heap[parent] = d.heap[parent], d.heap[i]
		i = parent
	}
}

func (d *referenceDijkstra) pop() refItem {
	top := d.heap[0]
	n := len(d.heap) - 1
	d.heap[0] = d.heap[n]
	d.heap = d.heap[:n]
	i := 0
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if r := child + 1; r < n && d.heap[r].cost < d.heap[child].cost {
			child = r
		}
		if d.heap[i].cost <= d.heap[child].cost {
			break
		}
		d.heap[i], d.heap[child] = d.heap[child], d.heap[i]
		i = child
	}
	return top
}
