// Package download implements the sequential download pipeline. It walks a
// resolved list of videos one at a time, drives the configured extraction
// engine, post-processes files into the requested format via ffmpeg, and
// verifies that every reported success actually materialized on disk.
package download
