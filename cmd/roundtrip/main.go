package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"fenblit/blitboard"
	"fenblit/interop"
)

func main() {
	fen := flag.String("fen", blitboard.FENStartPos, "FEN string (defaults to initial position)")
	repeat := flag.Int("repeat", 100000, "Decode/encode the record N times")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	check := flag.Bool("interop", false, "Also convert through dragontoothmg and corentings/chess once")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := flag.String("memprofile", "", "Write heap profile to file after run")
	flag.Parse()

	if *repeat <= 0 {
		fmt.Fprintln(os.Stderr, "-repeat must be > 0")
		os.Exit(2)
	}

	p, err := blitboard.ParseFEN(*fen)
	if err != nil {
		var pe *blitboard.ParseError
		if errors.As(err, &pe) {
			fmt.Fprintln(os.Stderr, pe.Diagnostic())
		} else {
			fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		}
		os.Exit(2)
	}
	canonical := p.ToFEN()

	if *check {
		if _, err := interop.ToDragontooth(p); err != nil {
			fmt.Fprintf(os.Stderr, "dragontoothmg: %v\n", err)
			os.Exit(1)
		}
		pos, err := interop.ToChess(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chess: %v\n", err)
			os.Exit(1)
		}
		if back, err := interop.FromChess(pos); err != nil || back.ToFEN() != canonical {
			fmt.Fprintf(os.Stderr, "chess round trip: %v\n", err)
			os.Exit(1)
		}
	}

	// Optional CPU profiling
	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	// Timing loop: decode the canonical record and re-encode it.
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		q, err := blitboard.ParseFEN(canonical)
		if err != nil {
			fmt.Fprintf(os.Stderr, "iteration %d: %v\n", i, err)
			os.Exit(1)
		}
		if out := q.ToFEN(); out != canonical {
			fmt.Fprintf(os.Stderr, "round trip changed the record:\n  %s\n  %s\n", canonical, out)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	perOp := elapsed / time.Duration(*repeat)

	// Single line: Label Repeat Time ns/op FEN
	fmt.Printf("%s \t%d \t%s \t%d \t%s\n", *label, *repeat, elapsed, perOp.Nanoseconds(), canonical)

	// Optional heap profile after run
	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating memprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "write heap profile: %v\n", err)
			os.Exit(2)
		}
		_ = f.Close()
	}
}
