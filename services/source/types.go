// Package source defines the contract every video backend satisfies and the normalized
// records they return.
package source

import (
	"context"
	"fmt"
)

// Source resolves a video URL into metadata and fetches its audio.
type Source interface {
	// Lookup resolves url. Failures are returned as *ExtractionError.
	Lookup(ctx context.Context, url string) (*Video, error)
	// StreamURL resolves a playable URL for f when the backend left Format.URL empty.
	StreamURL(ctx context.Context, v *Video, f Format) (string, error)
	// FetchAudio writes the best available audio of url to outPath as an MP3.
	FetchAudio(ctx context.Context, url string, outPath string) error
}

type Video struct {
	ID           string
	Title        string
	Author       string
	Album        string
	ThumbnailURL string
	Thumbnails   []Thumbnail
	Formats      []Format
}

type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

type Format struct {
	ID       string
	HasAudio bool
	HasVideo bool
	URL      string
	Bitrate  int
}

// ExtractionError reports that a backend could not resolve a URL.
type ExtractionError struct {
	URL   string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.URL, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }
