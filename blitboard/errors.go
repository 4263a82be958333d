package blitboard

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds reported by the decoder. A *ParseError unwraps to exactly one.
var (
	ErrEmptyInput  = errors.New("empty FEN record")
	ErrArity       = errors.New("too many fields")
	ErrStructure   = errors.New("malformed piece placement")
	ErrFieldLength = errors.New("wrong field length")
	ErrFieldValue  = errors.New("invalid character")
	ErrNumeric     = errors.New("invalid number")
)

// Field identifies one space-delimited field of a FEN record.
type Field int

const (
	FieldPiecePlacement Field = iota
	FieldSideToMove
	FieldCastlingRights
	FieldEnPassant
	FieldHalfmoveClock
	FieldFullmoveNumber

	// FieldExtra is the first field past the sixth; only arity errors use it.
	FieldExtra
)

// NumFields is the number of fields in a complete record.
const NumFields = int(FieldExtra)

func (f Field) String() string {
	switch f {
	case FieldPiecePlacement:
		return "piece placement"
	case FieldSideToMove:
		return "side to move"
	case FieldCastlingRights:
		return "castling rights"
	case FieldEnPassant:
		return "en passant target"
	case FieldHalfmoveClock:
		return "halfmove clock"
	case FieldFullmoveNumber:
		return "fullmove number"
	case FieldExtra:
		return "extra field"
	default:
		return fmt.Sprintf("field %d", int(f))
	}
}

// sentence is the closing line of a diagnostic.
func (f Field) sentence() string {
	switch f {
	case FieldPiecePlacement:
		return "Piece placement data could not be parsed."
	case FieldSideToMove:
		return "Side to move could not be parsed."
	case FieldCastlingRights:
		return "Castling rights could not be parsed."
	case FieldEnPassant:
		return "En passant target square could not be parsed."
	case FieldHalfmoveClock:
		return "Halfmove clock could not be parsed."
	case FieldFullmoveNumber:
		return "Fullmove number could not be parsed."
	case FieldExtra:
		return "The record has more than six fields."
	default:
		return ""
	}
}

// ParseError describes the first problem found in a FEN record.
// Offset counts characters from the start of Field.
type ParseError struct {
	Kind   error
	Field  Field
	Offset int
	Msg    string
	// Record is the whitespace-normalized input.
	Record string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid FEN: %s: %s", e.Field, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Diagnostic returns the message followed by the caret display built by Describe.
func (e *ParseError) Diagnostic() string {
	if errors.Is(e.Kind, ErrEmptyInput) {
		return e.Msg
	}
	return e.Msg + "\n" + Describe(e.Record, e.Field, e.Offset)
}

// splitFields splits a record on runs of spaces, dropping empty fields.
func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' })
}

// NormalizeFEN trims the record and collapses every run of spaces to one.
func NormalizeFEN(s string) string {
	return strings.Join(splitFields(s), " ")
}

// Describe renders record on one line and underlines the given field on the
// next: '~' across the field with a '^' at offset. A sentence naming the field
// closes the text.
func Describe(record string, field Field, offset int) string {
	fields := splitFields(record)
	line := strings.Join(fields, " ")

	start, width := 0, 0
	if int(field) < len(fields) {
		for _, f := range fields[:field] {
			start += utf8.RuneCountInString(f) + 1
		}
		width = utf8.RuneCountInString(fields[field])
	} else if line != "" {
		start = utf8.RuneCountInString(line) + 1
	}
	offset = max(offset, 0)

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", start))
	sb.WriteString(strings.Repeat("~", offset))
	sb.WriteByte('^')
	sb.WriteString(strings.Repeat("~", max(width-offset-1, 0)))
	if s := field.sentence(); s != "" {
		sb.WriteByte('\n')
		sb.WriteString(s)
	}
	return sb.String()
}
