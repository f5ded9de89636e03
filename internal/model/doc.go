// Package model defines domain data structures used across the app: download
// tasks, resolved playlists, engine metadata, and status enums. Structures
// carry explicit state so the orchestrator and the report writer share one
// view of an item's outcome.
package model
