package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing token",
			err:         errors.New("missing bearer token"),
			wantCode:    "AUTH001",
			wantMessage: "Unauthorized",
		},
		{
			name:        "expired token",
			err:         fmt.Errorf("decode claims: %w", errors.New("token expired")),
			wantCode:    "AUTH003",
			wantMessage: "Unauthorized: session expired",
		},
		{
			name:        "wrong issuer",
			err:         errors.New("invalid token issuer: https://evil.example.com"),
			wantCode:    "AUTH004",
			wantMessage: "Unauthorized",
		},
		{
			name:        "method not allowed",
			err:         errors.New("method not allowed: GET"),
			wantCode:    "REQ001",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "not multipart",
			err:         errors.New("expected multipart/form-data, got application/json"),
			wantCode:    "REQ002",
			wantMessage: "Expected multipart/form-data",
		},
		{
			name:        "spreadsheet wrapped",
			err:         CheckFileName("season.xlsx"),
			wantCode:    "FILE006",
			wantMessage: "XLS/XLSX files are not supported in this environment",
		},
		{
			name:        "other extension wrapped",
			err:         CheckFileName("season.txt"),
			wantCode:    "FILE007",
			wantMessage: "Unsupported file type",
		},
		{
			name:        "validation beats nested invalid number",
			err:         ValidationErrors{{Record: "placement", Field: "year", Message: "invalid number"}},
			wantCode:    "VAL007",
			wantMessage: "Some records are invalid",
		},
		{
			name:        "bare number error",
			err:         &NumberError{Input: "abc", Err: ErrNotInteger},
			wantCode:    "VAL002",
			wantMessage: "Invalid number format detected",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("ERROR: insert on table \"results\" violates foreign key constraint"),
			wantCode:    "DB003",
			wantMessage: "Referenced record does not exist",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "context deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "DB006",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("FILE TOO LARGE"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds maximum size limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrUnsupportedSpreadsheet)

	expected := "XLS/XLSX files are not supported in this environment (Code: FILE006). Please convert to CSV format"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("no file uploaded"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
