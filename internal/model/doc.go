// Package model defines the entity records kept by the ledger.
//
// This package contains type definitions and the record codec only. It
// imports nothing internal, so every other package can depend on it.
//
// Key design constraints:
//   - Identifiers are u64 values from the single global allocator
//   - Timestamps are u64 nanoseconds since the Unix epoch
//   - Enums serialize as their names ("Admin", "Transportation", ...)
//   - All JSON tags use snake_case
//   - Every record type declares a maximum encoded size (MaxSize)
package model
