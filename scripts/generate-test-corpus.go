//go:build ignore

// Package main generates a synthetic crawl corpus for benchmarking.
// Usage: go run scripts/generate-test-corpus.go -partitions 4 -records 25000 -output testdata/bench
//
// The output mirrors the default layout: <output>/analyses/partition=N/part-0.jsonl
// plus a blocklist at <output>/top_1m_nsfw_sites.txt.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numPartitions = flag.Int("partitions", 4, "Number of partition directories")
	numRecords    = flag.Int("records", 25000, "Records per partition")
	badRate       = flag.Float64("bad", 0.01, "Fraction of malformed lines")
	outputDir     = flag.String("output", "testdata/bench", "Output directory")
	seed          = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var (
	hosts     = []string{"news.example", "blog.example", "shop.example", "wiki.example", "forum.example"}
	flagged   = []string{"adult.example", "casino.example"}
	languages = []string{"en", "en", "en", "de", "fr", "es", ""}
	words     = strings.Fields(`river flood market election harvest library museum
		concert recipe bicycle mountain harbor festival weather science garden
		software railway bridge island theater football orchestra`)
)

type record struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	ContentText *string `json:"content_text,omitempty"`
	MetaContent *string `json:"meta_content,omitempty"`
	Language    *string `json:"language,omitempty"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	for p := 0; p < *numPartitions; p++ {
		if err := writePartition(rng, p); err != nil {
			fmt.Fprintf(os.Stderr, "partition %d: %v\n", p, err)
			os.Exit(1)
		}
	}

	bl := filepath.Join(*outputDir, "top_1m_nsfw_sites.txt")
	if err := os.WriteFile(bl, []byte(strings.Join(flagged, "\n")+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "blocklist: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d records in %d partitions under %s\n",
		*numPartitions**numRecords, *numPartitions, *outputDir)
}

func writePartition(rng *rand.Rand, p int) error {
	dir := filepath.Join(*outputDir, "analyses", fmt.Sprintf("partition=%d", p))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "part-0.jsonl"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := 0; i < *numRecords; i++ {
		if rng.Float64() < *badRate {
			fmt.Fprintln(w, `{"url": "truncated`)
			continue
		}
		if err := enc.Encode(randomRecord(rng, p, i)); err != nil {
			return err
		}
	}
	return w.Flush()
}

func randomRecord(rng *rand.Rand, p, i int) record {
	host := hosts[rng.Intn(len(hosts))]
	if rng.Intn(50) == 0 {
		host = flagged[rng.Intn(len(flagged))]
	}

	rec := record{URL: fmt.Sprintf("https://www.%s/%d/%d", host, p, i)}
	title := sentence(rng, 3+rng.Intn(5))
	content := sentence(rng, 50+rng.Intn(400))
	rec.Title = &title
	rec.ContentText = &content
	if rng.Intn(2) == 0 {
		meta := sentence(rng, 5)
		rec.MetaContent = &meta
	}
	if lang := languages[rng.Intn(len(languages))]; lang != "" {
		rec.Language = &lang
	}
	return rec
}

func sentence(rng *rand.Rand, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.Intn(len(words))]
	}
	return strings.Join(parts, " ")
}
