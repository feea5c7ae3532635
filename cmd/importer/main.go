package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"address-search/internal/config"
	"address-search/internal/models"
	"address-search/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// csvColumns is the expected header of the import file.
var csvColumns = []string{
	"name",
	"country",
	"administrative_area",
	"sub_administrative_area",
	"locality",
	"sub_locality",
	"thoroughfare",
	"sub_thoroughfare",
	"latitude",
	"longitude",
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	configPath := flag.String("config", "configs", "Directory holding app.env")
	flag.Parse()

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	records, err := parseCSV(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing CSV")
	}

	log.Info().Int("records", len(records)).Msg("parsed records")

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// Connect to DB
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer conn.Close(ctx)

	// Ensure table exists
	if err := repository.EnsureSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("error creating table")
	}

	// Insert records
	inserted, err := insertRecords(ctx, conn, records)
	if err != nil {
		log.Fatal().Err(err).Msg("error inserting records")
	}

	log.Info().Int64("records", inserted).Msg("successfully imported records")
}

func parseCSV(filePath string) ([]models.Placemark, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return readPlacemarks(file)
}

func readPlacemarks(r io.Reader) ([]models.Placemark, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range csvColumns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	var records []models.Placemark
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		lat, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", row[8])
		}

		lon, err := strconv.ParseFloat(row[9], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", row[9])
		}

		p := models.Placemark{
			Name:                  row[0],
			Country:               row[1],
			AdministrativeArea:    row[2],
			SubAdministrativeArea: row[3],
			Locality:              row[4],
			SubLocality:           row[5],
			Thoroughfare:          row[6],
			SubThoroughfare:       row[7],
			Latitude:              lat,
			Longitude:             lon,
		}
		if err := (models.Coordinate{Latitude: lat, Longitude: lon}).Validate(); err != nil {
			return nil, fmt.Errorf("record %q: %w", p.Text(), err)
		}

		records = append(records, p)
	}

	return records, nil
}

// nullable stores absent fields as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func insertRecords(ctx context.Context, conn *pgx.Conn, records []models.Placemark) (int64, error) {
	// Use CopyFrom for bulk insert
	return conn.CopyFrom(
		ctx,
		pgx.Identifier{"placemarks"},
		[]string{
			"name", "country", "administrative_area", "sub_administrative_area",
			"locality", "sub_locality", "thoroughfare", "sub_thoroughfare", "geom",
		},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			geom := fmt.Sprintf("SRID=4326;POINT(%f %f)", r.Longitude, r.Latitude) // PostGIS format: lon lat
			return []any{
				nullable(r.Name), nullable(r.Country), nullable(r.AdministrativeArea), nullable(r.SubAdministrativeArea),
				nullable(r.Locality), nullable(r.SubLocality), nullable(r.Thoroughfare), nullable(r.SubThoroughfare), geom,
			}, nil
		}),
	)
}
