package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"chway/pkg/ch"
	"chway/pkg/fmi"
	"chway/pkg/graph"
	osmparser "chway/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to input graph (.osm.pbf or FMI text)")
	format := flag.String("format", "osm", "Input format: osm or fmi")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	bbox := flag.String("bbox", "", "Bounding box filter for OSM input: minLat,minLng,maxLat,maxLng")
	budget := flag.Duration("budget", -1, "Contraction time budget (negative = unlimited)")
	seed := flag.Int64("seed", 1, "Shuffle seed for deterministic contraction")
	prune := flag.Bool("prune-shortcuts", false, "Enable the redundant-shortcut post-pass")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file> [--format osm|fmi] [--output graph.bin] [--bbox minLat,minLng,maxLat,maxLng] [--budget 10m] [--seed 1]")
		os.Exit(1)
	}

	start := time.Now()

	var g *graph.Graph
	switch *format {
	case "fmi":
		var err error
		log.Printf("Loading FMI graph from %s...", *input)
		g, err = fmi.LoadGraph(*input)
		if err != nil {
			log.Fatalf("Failed to load FMI graph: %v", err)
		}
	case "osm":
		var opts osmparser.ParseOptions
		if *bbox != "" {
			var minLat, minLng, maxLat, maxLng float64
			_, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng)
			if err != nil {
				log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
			}
			opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
			log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
		}

		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer f.Close()

		log.Println("Parsing OSM data...")
		raw, err := osmparser.Parse(context.Background(), f, opts)
		if err != nil {
			log.Fatalf("Failed to parse OSM data: %v", err)
		}

		log.Println("Building graph...")
		g = graph.Build(raw)
	default:
		log.Fatalf("Unknown format %q (want osm or fmi)", *format)
	}
	log.Printf("Graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Println("Extracting largest connected component...")
	componentNodes := graph.LargestComponent(g)
	log.Printf("Largest component: %d nodes (%.1f%%)", len(componentNodes), float64(len(componentNodes))/float64(g.NumNodes)*100)
	g = graph.FilterToComponent(g, componentNodes)
	log.Printf("Filtered graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Println("Running contraction...")
	chOpts := ch.DefaultContractOptions()
	chOpts.TimeBudget = *budget
	chOpts.Seed = *seed
	chOpts.PruneRedundantShortcuts = *prune
	chg := ch.Contract(g, chOpts)
	log.Printf("CH complete: %d fwd edges, %d bwd edges", len(chg.FwdHead), len(chg.BwdHead))

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(*output, chg); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}
