package main

import (
	"flag"
	"os"
	"time"

	"bioatlas-backend/internal/database"
	"bioatlas-backend/internal/loader"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		dsn       = flag.String("db", "data/local_database.db", "target database (sqlite path or postgres URL)")
		companies = flag.String("companies", "data/companies.csv", "companies CSV file")
		midpoints = flag.String("midpoints", "data/midpoints.csv", "midpoints CSV file")
		pathways  = flag.String("pathways", "data/norm_pathways_all_companies.xlsx", "pathways workbook (marine/freshwater/terrestrial sheets)")
	)
	flag.Parse()

	if env := os.Getenv("DATABASE_URL"); env != "" && *dsn == "data/local_database.db" {
		*dsn = env
	}

	db, err := database.Open(*dsn)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dsn).Msg("open database failed")
	}

	if err := loader.Run(db, loader.Source{
		CompaniesCSV: *companies,
		MidpointsCSV: *midpoints,
		PathwaysXLSX: *pathways,
	}); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}
	log.Info().Str("db", *dsn).Msg("reference data loaded")
}
