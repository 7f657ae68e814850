package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"logview-backend/internal/model"
	"logview-backend/internal/parser"
)

// Backfill tool: parses an existing log file and indexes every entry into
// Elasticsearch, bypassing the Kafka pipeline. Useful for seeding an index
// from logs written before the service was deployed.
func main() {
	filePath := flag.String("file", "", "Log file to backfill")
	index := flag.String("index", "applogs", "Target Elasticsearch index prefix")
	addresses := flag.String("addresses", "http://localhost:9200", "Comma-separated Elasticsearch addresses")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("missing required -file flag")
	}

	cfg := elasticsearch.Config{
		Addresses: strings.Split(*addresses, ","),
	}
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatalf("Error creating Elasticsearch client: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Error opening log file: %v", err)
	}
	defer file.Close()

	ctx := context.Background()
	indexName := fmt.Sprintf("%s-%s", *index, time.Now().UTC().Format("2006-01-02"))

	p := parser.NewMultilineParser()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var indexed, failed int
	store := func(entry *model.LogEntry) {
		docJSON, err := json.Marshal(entry)
		if err != nil {
			log.Printf("Error marshaling entry: %v", err)
			failed++
			return
		}

		req := esapi.IndexRequest{
			Index: indexName,
			Body:  strings.NewReader(string(docJSON)),
		}
		res, err := req.Do(ctx, es)
		if err != nil {
			log.Printf("Error indexing entry at %s: %v", entry.Timestamp.Format(model.WireTimeLayout), err)
			failed++
			return
		}
		defer res.Body.Close()

		if res.IsError() {
			log.Printf("Error response from Elasticsearch: %s", res.String())
			failed++
			return
		}
		indexed++
	}

	for scanner.Scan() {
		if entry := p.Feed(scanner.Text()); entry != nil {
			store(entry)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading log file: %v", err)
	}
	if entry := p.Flush(); entry != nil {
		store(entry)
	}

	fmt.Printf("Backfilled %d entries into %s (%d failed)\n", indexed, indexName, failed)
}
