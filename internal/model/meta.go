package model

import "time"

// VideoMeta holds the metadata an extraction engine reports for a single video.
type VideoMeta struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Author   string        `json:"author,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	FileSize int64         `json:"file_size,omitempty"` // approximate, 0 if unknown
}
