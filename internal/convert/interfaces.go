package convert

import "context"

// Converter defines the interface for the post-processing service.
type Converter interface {
	Available() error
	ExtractAudio(ctx context.Context, src, format string) (string, error)
	ConvertContainer(ctx context.Context, src, format string) (string, error)
}

var _ Converter = (*Service)(nil)
