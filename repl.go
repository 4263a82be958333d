package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"fenblit/blitboard"
	"fenblit/render"
)

func main() {
	fen := flag.String("fen", "", "Decode one FEN record and exit")
	level := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	if *fen != "" {
		if !show(os.Stdout, *fen, log) {
			os.Exit(1)
		}
		return
	}
	repl(os.Stdin, os.Stdout, log)
}

// repl reads one FEN record per line until EOF or "quit", printing the board
// and canonical FEN of each, or the diagnostic when it does not parse.
func repl(in io.Reader, out io.Writer, log zerolog.Logger) {
	fmt.Fprintln(out, "Example FEN record string: "+blitboard.FENStartPos)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit":
			return
		}
		show(out, line, log)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
	fmt.Fprintln(out)
}

func show(out io.Writer, line string, log zerolog.Logger) bool {
	dec, err := blitboard.Decode(line)
	if err != nil {
		log.Debug().Err(err).Msg("rejected record")
		var pe *blitboard.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintln(out, pe.Diagnostic())
		} else {
			fmt.Fprintln(out, err)
		}
		return false
	}
	fmt.Fprintln(out, render.Board(dec.Position))
	fmt.Fprintln(out, dec.Position.ToFEN())
	return true
}
