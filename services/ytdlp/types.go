package ytdlp

import (
	"context"

	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/pkg/ytdlp"
)

// Runner is the part of the yt-dlp exec client the source needs.
type Runner interface {
	GetInfo(ctx context.Context, url string) (*ytdlp.Info, error)
	ExtractAudio(ctx context.Context, url, outPath, bitrate, ffmpegPath string) error
}

type Service struct {
	Config *config.Config
	Client Runner
}

func NewYTDLPService(cfg *config.Config) *Service {
	client := ytdlp.New(cfg.YTDLPPath)
	client.ExtraArgs = cfg.YTDLPArgs
	return &Service{
		Config: cfg,
		Client: client,
	}
}
