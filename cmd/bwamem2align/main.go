// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bwamem2align is a thin demonstration binary that wires the
// library together end to end: it loads an fmindex.Index, reads read
// pairs from a simple four-column (name1, bases1, name2, bases2)
// tab-separated stream, and writes SAM
// text records to stdout. Real FASTQ parsing, BAM output and CLI
// argument richness are out of scope (spec.md §1) — this exists only
// to prove the library composes, not as a product CLI.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/biogo/bwamem2/align"
	"github.com/biogo/bwamem2/fmindex"
)

func main() {
	prefix := flag.String("index", "", "index file prefix (required)")
	threads := flag.Int("t", 1, "number of worker goroutines")
	minSeedLen := flag.Int("k", 19, "minimum seed length")
	flag.Parse()

	if *prefix == "" {
		fmt.Fprintln(os.Stderr, "usage: bwamem2align -index <prefix> < reads.tsv")
		os.Exit(2)
	}

	idx, err := fmindex.Load(*prefix)
	if err != nil {
		log.Fatalf("bwamem2align: loading index: %v", err)
	}
	defer idx.Close()

	cfg := align.DefaultConfig()
	cfg.NumThreads = *threads
	cfg.MinSeedLen = *minSeedLen

	refName := func(id int) string {
		if id < 0 || id >= len(idx.Seqs.Seqs) {
			return "*"
		}
		return idx.Seqs.Seqs[id].Name
	}

	orc := &align.Orchestrator{
		Index:   idx,
		Config:  cfg,
		RefName: refName,
		Logger:  log.New(os.Stderr, "", log.LstdFlags),
	}

	pairs, err := readPairs(os.Stdin)
	if err != nil {
		log.Fatalf("bwamem2align: reading input: %v", err)
	}

	results := orc.Run(pairs)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, r := range results {
		for _, rec := range r.Records {
			fmt.Fprintln(w, rec.String())
		}
	}
}

// readPairs reads a minimal tab-separated stream: each line is
// "name1\tbases1\tname2\tbases2". This stands in for FASTQ parsing,
// which is explicitly out of the CORE's scope (spec.md §1).
func readPairs(r *os.File) ([]align.Pair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	var pairs []align.Pair
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}
		pairs = append(pairs, align.Pair{
			Mate1: align.Read{Name: fields[0], Bases: encode(fields[1]), Qual: strings.Repeat("I", len(fields[1]))},
			Mate2: align.Read{Name: fields[2], Bases: encode(fields[3]), Qual: strings.Repeat("I", len(fields[3]))},
		})
	}
	return pairs, sc.Err()
}

func encode(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case 'A', 'a':
			out[i] = 0
		case 'C', 'c':
			out[i] = 1
		case 'G', 'g':
			out[i] = 2
		case 'T', 't':
			out[i] = 3
		default:
			out[i] = 4
		}
	}
	return out
}
