package youtube_v2

import (
	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/pkg/http_client"
	"github.com/gcottom/zeromusic/services/converter"
	"github.com/gcottom/zeromusic/services/source"
	"github.com/kkdai/youtube/v2"
)

type YoutubeService interface {
	source.Source
}

type Service struct {
	Config     *config.Config
	HTTPClient *http_client.HTTPClient
	Converter  converter.ConverterService
}

func NewYoutubeService(cfg *config.Config, httpClient *http_client.HTTPClient, conv converter.ConverterService) *Service {
	return &Service{
		Config:     cfg,
		HTTPClient: httpClient,
		Converter:  conv,
	}
}

// newClient returns a client for one operation. kkdai switches a client to the embedded player
// for good once a video needs a login, so clients are not shared between videos, and the
// package level youtube.DefaultClient is never touched.
func (s *Service) newClient() *youtube.Client {
	return &youtube.Client{HTTPClient: s.HTTPClient.Client}
}

var _ YoutubeService = (*Service)(nil)
