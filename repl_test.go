package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"fenblit/blitboard"
)

func TestREPL(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		blitboard.FENStartPos,
		"8/8/8/8/8/8/8/8 w - e9 0 1",
		"quit",
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",
	}, "\n"))
	var out bytes.Buffer
	repl(in, &out, zerolog.Nop())
	got := out.String()

	if !strings.HasPrefix(got, "Example FEN record string: "+blitboard.FENStartPos+"\n> ") {
		t.Fatalf("missing banner:\n%s", got)
	}
	if !strings.Contains(got, "R N B Q K B N R\n"+blitboard.FENStartPos+"\n") {
		t.Fatalf("missing board and FEN:\n%s", got)
	}
	if !strings.Contains(got, "En passant target square could not be parsed.") {
		t.Fatalf("missing diagnostic:\n%s", got)
	}
	if strings.Contains(got, "4k3") {
		t.Fatalf("input after quit was processed:\n%s", got)
	}
	if n := strings.Count(got, "> "); n != 3 {
		t.Fatalf("expected 3 prompts, got %d", n)
	}
}

func TestREPLEOF(t *testing.T) {
	var out bytes.Buffer
	repl(strings.NewReader("   \n"), &out, zerolog.Nop())
	if !strings.Contains(out.String(), "the record is empty") {
		t.Fatalf("expected empty-record message:\n%s", out.String())
	}
	if !strings.HasSuffix(out.String(), "> \n") {
		t.Fatalf("expected final prompt and newline at EOF: %q", out.String())
	}
}

func TestShow(t *testing.T) {
	var out bytes.Buffer
	if !show(&out, "  "+blitboard.FENStartPos, zerolog.Nop()) {
		t.Fatalf("show rejected the start position")
	}
	if show(&out, "x", zerolog.Nop()) {
		t.Fatalf("show accepted garbage")
	}
}
