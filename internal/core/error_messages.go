// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Auth Errors (AUTH001-AUTH099)
//
//	AUTH001 - Missing token: No bearer token was sent
//	          Action: Sign in and try again
//	          Patterns: "missing bearer token"
//
//	AUTH002 - Malformed token: The session token could not be read
//	          Action: Sign out, sign back in and try again
//	          Patterns: "malformed token"
//
//	AUTH003 - Expired token: The session has expired
//	          Action: Sign in again
//	          Patterns: "token expired"
//
//	AUTH004 - Wrong issuer: The token was not issued by the club's identity provider
//	          Action: Sign in through the team dashboard
//	          Patterns: "invalid token issuer"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Method not allowed: Only POST is accepted
//	         Patterns: "method not allowed"
//
//	REQ002 - Not multipart: The request is not a file upload
//	         Action: Send the file as multipart/form-data
//	         Patterns: "expected multipart/form-data"
//
//	REQ003 - Invalid JSON: The request body is not valid JSON
//	         Patterns: "invalid json"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Patterns: "file too large"
//
//	FILE004 - No file: No file was uploaded
//	          Patterns: "no file uploaded"
//
//	FILE006 - Spreadsheet: XLS/XLSX uploads are not supported
//	          Action: Please convert to CSV format
//	          Patterns: "unsupported spreadsheet format"
//
//	FILE007 - Unsupported type: Only CSV files are accepted
//	          Patterns: "unsupported file type"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Empty commit: No placements or results were sent
//	         Patterns: "nothing to commit"
//
//	VAL002 - Invalid number: A numeric field is not a whole number
//	         Patterns: "invalid number"
//
//	VAL007 - Invalid records: One or more records failed validation
//	         Patterns: "validation failed"
//
//	VAL008 - Invalid lap time: Use HH:MM:SS or MM:SS
//	         Patterns: "invalid lap time"
//
// # Database Errors (DB001-DB099)
//
//	DB003 - Foreign key: Referenced leg definition, runner or season does not exist
//	DB004 - Connection refused
//	DB006 - Timeout
//	DB008 - Not found: No season recorded for that year
//	DB009 - Unavailable: Storage is not configured
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns come first.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Auth Errors (AUTH001-AUTH004)
	// =========================================================================
	{
		pattern: "missing bearer token",
		msg: UserMessage{
			Message: "Unauthorized",
			Action:  "Sign in and try again",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "malformed token",
		msg: UserMessage{
			Message: "Unauthorized",
			Action:  "Sign out, sign back in and try again",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "token expired",
		msg: UserMessage{
			Message: "Unauthorized: session expired",
			Action:  "Sign in again",
			Code:    "AUTH003",
		},
	},
	{
		pattern: "invalid token issuer",
		msg: UserMessage{
			Message: "Unauthorized",
			Action:  "Sign in through the team dashboard",
			Code:    "AUTH004",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ003)
	// =========================================================================
	{
		pattern: "method not allowed",
		msg: UserMessage{
			Message: "Method Not Allowed",
			Action:  "Use POST",
			Code:    "REQ001",
		},
	},
	{
		pattern: "expected multipart/form-data",
		msg: UserMessage{
			Message: "Expected multipart/form-data",
			Action:  "Send the file as a multipart form field named \"file\"",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "Request body is not valid JSON",
			Action:  "Send the reviewed placements and results as JSON",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file uploaded",
		msg: UserMessage{
			Message: "No file uploaded",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsupported spreadsheet format",
		msg: UserMessage{
			Message: "XLS/XLSX files are not supported in this environment",
			Action:  "Please convert to CSV format",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Please use CSV format",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL008)
	// =========================================================================
	{
		pattern: "nothing to commit",
		msg: UserMessage{
			Message: "No records to commit",
			Action:  "Upload a CSV file and review it first",
			Code:    "VAL001",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Some records are invalid",
			Action:  "Fix the listed fields and submit again",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid lap time",
		msg: UserMessage{
			Message: "Invalid lap time",
			Action:  "Use HH:MM:SS or MM:SS",
			Code:    "VAL008",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use whole numbers for years, places, team counts and bibs",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Database Errors (DB003-DB009)
	// =========================================================================
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check the leg definition, runner and season exist first",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "season not found",
		msg: UserMessage{
			Message: "No results recorded for that season",
			Action:  "Check the year",
			Code:    "DB008",
		},
	},
	{
		pattern: "storage not configured",
		msg: UserMessage{
			Message: "Storage is not available",
			Action:  "Ask an administrator to configure DATABASE_URL",
			Code:    "DB009",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again later",
			Code:    "DB006",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
