// Package platform contains YouTube URL handling and filesystem glue:
// canonical URL normalization, playlist resolution into a capped video
// list, and helpers for safe download paths.
package platform
