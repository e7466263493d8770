package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Upload file errors. The web layer maps these to 400 responses.
var (
	// ErrUnsupportedSpreadsheet rejects .xls/.xlsx uploads with guidance.
	ErrUnsupportedSpreadsheet = errors.New("unsupported spreadsheet format")

	// ErrUnsupportedFileType rejects any other non-CSV extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// utf8BOM is prepended by Excel when saving "CSV UTF-8".
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CheckFileName accepts .csv files (case-insensitive) and rejects the rest.
func CheckFileName(name string) error {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return nil
	case strings.HasSuffix(lower, ".xls"), strings.HasSuffix(lower, ".xlsx"):
		return fmt.Errorf("%w: %s", ErrUnsupportedSpreadsheet, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFileType, name)
	}
}

// ParseCSV runs the whole pipeline over an uploaded file's bytes:
// sanitize, tokenize, classify.
func ParseCSV(data []byte) Batch {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)
	return Partition(Rows(string(data)))
}

// sanitizeUTF8 replaces each invalid byte with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
