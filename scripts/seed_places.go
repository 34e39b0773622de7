package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Loads a place dataset from a CSV (id,name,class,lon,lat) into the
// places table. Usage: go run scripts/seed_places.go places.csv
func main() {
	fmt.Println("loading places into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: seed_places <csv-file>")
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("cannot open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("cannot read csv: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), os.Getenv("DB_DSN"))
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	query := `
		INSERT INTO places (id, name, class, lon, lat, geom)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($4, $5), 4326))
		ON CONFLICT (id) DO UPDATE SET name = $2, class = $3, lon = $4, lat = $5,
			geom = ST_SetSRID(ST_MakePoint($4, $5), 4326)
	`

	count := 0
	for _, rec := range records {
		if len(rec) != 5 {
			log.Fatalf("bad row: %v", rec)
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			log.Fatalf("bad id '%s': %v", rec[0], err)
		}
		lon, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			log.Fatalf("bad lon '%s': %v", rec[3], err)
		}
		lat, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			log.Fatalf("bad lat '%s': %v", rec[4], err)
		}

		_, err = pool.Exec(context.Background(), query, id, rec[1], rec[2], lon, lat)
		if err != nil {
			log.Fatalf("cannot insert place %d: %v", id, err)
		}
		count++
	}

	fmt.Printf("loaded %d places successfully!\n", count)
}
