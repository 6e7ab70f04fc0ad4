// Command entrygen emits a deterministic synthetic entry/dependency graph
// for load-testing the Asset Graph Builder outside `go test`: a flat list
// of JS file paths, each with up to -fanout dependencies on
// lower-numbered files (guaranteeing an acyclic graph), as newline-
// separated "path dep1,dep2,..." records.
//
// Usage:
//
//	go run ./tools/entrygen -n 10000 -fanout 3 -seed 42 -out graph.txt
//
// © 2025 parcelgo authors. MIT License.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

func main() {
	var (
		n       = flag.Int("n", 10_000, "number of synthetic files to generate")
		fanout  = flag.Int("fanout", 3, "maximum dependencies per file")
		seedVal = flag.Int64("seed", 42, "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var out *os.File
	if *outPath == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		deps := make([]string, 0, *fanout)
		if i > 0 {
			count := rnd.Intn(*fanout + 1)
			for j := 0; j < count; j++ {
				deps = append(deps, fmt.Sprintf("src/file_%d.js", rnd.Intn(i)))
			}
		}
		fmt.Fprintf(w, "src/file_%d.js %s\n", i, strings.Join(deps, ","))
	}
}
