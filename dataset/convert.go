package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Output formats understood by Convert.
const (
	FormatBinary  = "bin"
	FormatParquet = "parquet"
)

// ConvertOptions controls Convert.
type ConvertOptions struct {
	CSV      bool
	MaxRows  int
	Format   string // FormatBinary (default) or FormatParquet
	Parallel int64  // parquet writer goroutines; 0 means 4
}

// ConvertStats summarizes one Convert run.
type ConvertStats struct {
	Accepted int
	Rejected int
	Bytes    int64
}

// Convert loads the FEN collection at in and writes its positions to out.
// Rejected lines are logged and counted but do not fail the conversion.
func Convert(in, out string, opts ConvertOptions, log zerolog.Logger) (ConvertStats, error) {
	var stats ConvertStats

	log.Info().Str("path", in).Bool("csv", opts.CSV).Int("max", opts.MaxRows).Msg("loading dataset")
	entries, rejected, err := LoadFENs(in, opts.CSV, opts.MaxRows)
	if err != nil {
		return stats, fmt.Errorf("load dataset: %w", err)
	}
	stats.Accepted, stats.Rejected = len(entries), len(rejected)
	for _, le := range rejected {
		log.Warn().Int("line", le.Line).Err(le.Err).Msg("rejected record")
	}
	log.Info().Int("accepted", stats.Accepted).Int("rejected", stats.Rejected).Msg("loaded dataset")

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return stats, fmt.Errorf("create output directory: %w", err)
		}
	}

	positions := Positions(entries)
	progress := func(done int) {
		log.Info().Int("done", done).Int("total", len(positions)).Msg("converting")
	}

	switch opts.Format {
	case "", FormatBinary:
		err = writeBinary(out, positions, progress)
	case FormatParquet:
		parallel := opts.Parallel
		if parallel <= 0 {
			parallel = 4
		}
		err = writeParquet(out, positions, parallel, progress)
	default:
		return stats, fmt.Errorf("unknown format %q", opts.Format)
	}
	if err != nil {
		return stats, fmt.Errorf("write %s: %w", out, err)
	}

	if fi, err := os.Stat(out); err == nil {
		stats.Bytes = fi.Size()
	}
	log.Info().
		Str("path", out).
		Int("records", len(positions)).
		Float64("mb", float64(stats.Bytes)/(1024*1024)).
		Msg("conversion complete")
	return stats, nil
}
