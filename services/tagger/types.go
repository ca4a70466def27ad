package tagger

import (
	"context"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

type TaggerService interface {
	Apply(ctx context.Context, path string, m Meta) Result
}

type Service struct{}

func NewTaggerService() *Service {
	return &Service{}
}

// Meta is what gets written into the file. CoverPath is optional.
type Meta struct {
	Title     string
	Artist    string
	Album     string
	CoverPath string
}

type Status int

const (
	Applied Status = iota
	AppliedWithoutCover
	Failed
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case AppliedWithoutCover:
		return "applied_without_cover"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of Apply. Err is set for Failed, and for AppliedWithoutCover when a
// cover was requested but could not be attached.
type Result struct {
	Status Status
	Err    error
}

// Tags is what Read finds in a file.
type Tags struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Genre     string `json:"genre,omitempty"`
	HasCover  bool   `json:"has_cover"`
	CoverMIME string `json:"cover_mime,omitempty"`
}
