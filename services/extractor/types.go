package extractor

import (
	"context"
	"image"

	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/pkg/http_client"
	"github.com/gcottom/zeromusic/services/source"
)

type ExtractorService interface {
	Extract(ctx context.Context, url string) (*VideoInfo, error)
}

type Service struct {
	Config     *config.Config
	Source     source.Source
	HTTPClient *http_client.HTTPClient
}

// VideoInfo is what the preview shows. Thumbnail is nil when the image could not be fetched.
type VideoInfo struct {
	Title        string
	Author       string
	Album        string
	Thumbnail    image.Image
	ThumbnailURL string
	StreamURL    string
}

func NewExtractorService(cfg *config.Config, src source.Source) *Service {
	return &Service{
		Config:     cfg,
		Source:     src,
		HTTPClient: http_client.NewHTTPClient(cfg.Timeouts.Thumbnail),
	}
}
