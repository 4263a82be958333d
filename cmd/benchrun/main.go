package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// roundTrips are the positions timed through cmd/roundtrip after the benchmarks.
var roundTrips = []struct {
	label, fen string
	interop    bool
}{
	{"Initial", "", true},
	{"Empty", "8/8/8/8/8/8/8/8 w - - 0 1", false},
	{"Kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", true},
}

// benchArgs builds the go test arguments that run only benchmarks in pkgs.
func benchArgs(pkgs []string, benchtime string) []string {
	args := append([]string{"test"}, pkgs...)
	return append(args, "-run", "^$", "-bench", ".", "-benchmem", "-benchtime="+benchtime)
}

func roundTripArgs(label, fen string, interop bool) []string {
	args := []string{"run", "./cmd/roundtrip", "-label", label}
	if fen != "" {
		args = append(args, "-fen", fen)
	}
	if interop {
		args = append(args, "-interop")
	}
	return args
}

// goTool runs the go command with its output streamed to ours and returns
// the exit code.
func goTool(args ...string) int {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var ee *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "go %s: %v\n", strings.Join(args, " "), err)
	return 1
}

func main() {
	// Usage: go run ./cmd/benchrun [-pkgs ./bench,./blitboard] [-benchtime 1s]
	pkgs := flag.String("pkgs", "./bench,./blitboard", "comma separated packages to benchmark")
	benchtime := flag.String("benchtime", "1s", "value passed to go test -benchtime")
	flag.Parse()

	fmt.Println("Columns: BENCHMARK  N  ns/op  B/op  allocs/op")
	if code := goTool(benchArgs(strings.Split(*pkgs, ","), *benchtime)...); code != 0 {
		os.Exit(code)
	}

	fmt.Println("\nRound trip:")
	fmt.Println("LABEL \t\tRepeat \tTime \tns/op \tFEN")
	failed := 0
	for _, rt := range roundTrips {
		if goTool(roundTripArgs(rt.label, rt.fen, rt.interop)...) != 0 {
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
