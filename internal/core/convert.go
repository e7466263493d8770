package core

// convert.go coerces loosely typed CSV text into numbers.
//
// Spreadsheet exports carry numbers as text ("42", " 2023 ", "2023.0").
// Coercion is lenient at the API boundary: a cell that is not a number
// still produces a record, with the field marked invalid (JSON null)
// instead of being rejected or silently set to zero.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ErrEmptyNumber is wrapped by NumberError when the cell is blank.
var ErrEmptyNumber = errors.New("empty value")

// ErrNotInteger is wrapped by NumberError when the cell is numeric but
// has a fractional part or is out of range.
var ErrNotInteger = errors.New("not an integer")

// NumberError reports a cell that could not be coerced to an integer.
type NumberError struct {
	Input string
	Err   error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("invalid number %q: %v", e.Input, e.Err)
}

func (e *NumberError) Unwrap() error {
	return e.Err
}

// ParseInt coerces s to an integer.
// Surrounding whitespace is ignored. Integral decimals such as "2023.0"
// are accepted; fractions, text, NaN and infinities are not.
func ParseInt(s string) (int64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, &NumberError{Input: s, Err: ErrEmptyNumber}
	}

	n, err := strconv.ParseInt(t, 10, 64)
	if err == nil {
		return n, nil
	}

	f, ferr := strconv.ParseFloat(t, 64)
	if ferr != nil {
		var numErr *strconv.NumError
		if errors.As(ferr, &numErr) {
			return 0, &NumberError{Input: s, Err: numErr.Err}
		}
		return 0, &NumberError{Input: s, Err: ferr}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, &NumberError{Input: s, Err: ErrNotInteger}
	}
	return int64(f), nil
}

// ToPgInt8 converts a cell to pgtype.Int8.
// Returns Valid=false when ParseInt fails.
func ToPgInt8(s string) pgtype.Int8 {
	n, err := ParseInt(s)
	if err != nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: n, Valid: true}
}

// Int8 is a shorthand for a valid pgtype.Int8.
func Int8(n int64) pgtype.Int8 {
	return pgtype.Int8{Int64: n, Valid: true}
}

// FormatInt8 renders v the way it would appear in a CSV cell.
// Invalid values render as "".
func FormatInt8(v pgtype.Int8) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}
