package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"fenblit/dataset"
)

func main() {
	input := flag.String("in", "", "Input FEN collection (one record per line, TSV columns)")
	output := flag.String("out", "", "Output file (.bin, .bin.zst or .parquet)")
	isCSV := flag.Bool("csv", false, "Input is CSV (default: TSV)")
	maxRows := flag.Int("max", 0, "Maximum rows to convert (0 = all)")
	format := flag.String("format", dataset.FormatBinary, "Output format: bin or parquet")
	parallel := flag.Int64("parallel", 4, "Parquet writer goroutines")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Println("Usage: convert -in <input.tsv> -out <output.bin>")
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	opts := dataset.ConvertOptions{
		CSV:      *isCSV,
		MaxRows:  *maxRows,
		Format:   *format,
		Parallel: *parallel,
	}
	stats, err := dataset.Convert(*input, *output, opts, log)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
	if stats.Rejected > 0 {
		log.Warn().Int("rejected", stats.Rejected).Msg("some records were skipped")
	}
}
