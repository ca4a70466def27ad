package cover

import (
	"context"

	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/pkg/http_client"
)

type CoverService interface {
	Prepare(ctx context.Context, url string) (string, error)
}

type Service struct {
	Config     *config.Config
	HTTPClient *http_client.HTTPClient
}

func NewCoverService(cfg *config.Config) *Service {
	return &Service{
		Config:     cfg,
		HTTPClient: http_client.NewHTTPClient(cfg.Timeouts.Thumbnail),
	}
}
