// Package core provides the business logic for race-result ingestion.
//
// This package holds all domain logic independent of any transport or
// storage layer. It can be used by web handlers, the CLI, or tests without
// modification.
//
// # Pipeline
//
// An uploaded spreadsheet export flows through three pure steps:
//
//  1. [Rows] tokenizes CSV text into header-keyed [Row] mappings
//  2. [Classify] decides each row's [Kind] from the keys it carries
//  3. [Partition] coerces rows into [Placement] and [LegResult] records
//
// [ParseCSV] runs all three over raw file bytes after stripping a UTF-8 BOM
// and replacing invalid UTF-8.
//
// # Leniency
//
// Rows that match neither shape are dropped. Numeric cells that do not
// parse become invalid pgtype.Int8 values (JSON null) rather than errors.
// Callers must run [Validate] before persisting.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - AUTH001-AUTH004: bearer token problems
//   - REQ001-REQ003: method, content type, body format
//   - FILE001-FILE007: size, missing file, unsupported formats
//   - VAL001-VAL008: empty commits, numbers, lap times, record validation
//   - DB003-DB009: storage errors
package core
