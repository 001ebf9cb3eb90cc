// seed_responses.go loads a survey CSV export into the Postgres table read by
// the postgres source. Every column is stored as TEXT under its CSV header.
//
// Usage:
//
//	go run scripts/seed_responses.go -csv dinner_club_rankings.csv -table dinner_club_responses
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

func main() {
	csvPath := flag.String("csv", "dinner_club_rankings.csv", "path to the survey CSV export")
	table := flag.String("table", "dinner_club_responses", "destination table, optionally schema-qualified")
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	truncate := flag.Bool("truncate", false, "delete existing rows before loading")
	dryRun := flag.Bool("dry-run", false, "print the parsed header and row count without writing")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		log.Fatalf("parse csv: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("%s has no header row", *csvPath)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = rec[i]
			} else {
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}

	log.Printf("parsed %d rows with %d columns from %s", len(rows), len(header), *csvPath)
	if *dryRun {
		for _, h := range header {
			fmt.Printf("  %q\n", h)
		}
		return
	}
	if *databaseURL == "" {
		log.Fatal("database URL required (-database-url or DATABASE_URL)")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, *databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier(strings.Split(*table, "."))
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = pgx.Identifier{h}.Sanitize() + " TEXT"
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident.Sanitize(), strings.Join(cols, ", "))); err != nil {
		log.Fatalf("create table: %v", err)
	}
	if *truncate {
		if _, err := tx.Exec(ctx, "DELETE FROM "+ident.Sanitize()); err != nil {
			log.Fatalf("truncate: %v", err)
		}
	}

	n, err := tx.CopyFrom(ctx, ident, header, pgx.CopyFromRows(rows))
	if err != nil {
		log.Fatalf("copy rows: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}
	log.Printf("loaded %d rows into %s", n, *table)
}
