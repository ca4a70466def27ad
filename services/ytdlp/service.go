package ytdlp

import (
	"context"
	"fmt"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/pkg/ytdlp"
	"github.com/gcottom/zeromusic/services/source"
	"go.uber.org/zap"
)

func (s *Service) Lookup(ctx context.Context, url string) (*source.Video, error) {
	zaplog.InfoC(ctx, "getting video info with yt-dlp", zap.String("url", url))
	info, err := s.Client.GetInfo(ctx, url)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to get video info", zap.String("url", url), zap.Error(err))
		return nil, &source.ExtractionError{URL: url, Cause: err}
	}
	return normalize(info), nil
}

// StreamURL is only reached for formats without a URL, which yt-dlp never produces.
func (s *Service) StreamURL(ctx context.Context, v *source.Video, f source.Format) (string, error) {
	if f.URL != "" {
		return f.URL, nil
	}
	return "", fmt.Errorf("yt-dlp returned no url for format %s of %s", f.ID, v.ID)
}

func (s *Service) FetchAudio(ctx context.Context, url string, outPath string) error {
	zaplog.InfoC(ctx, "extracting audio with yt-dlp", zap.String("url", url), zap.String("out", outPath))
	if err := s.Client.ExtractAudio(ctx, url, outPath, s.Config.Bitrate, s.Config.FFMPEGPath); err != nil {
		zaplog.ErrorC(ctx, "failed to extract audio", zap.String("url", url), zap.Error(err))
		return err
	}
	return nil
}

func normalize(info *ytdlp.Info) *source.Video {
	author := info.Uploader
	if author == "" {
		author = info.Channel
	}
	if author == "" {
		author = info.Artist
	}
	v := &source.Video{
		ID:           info.ID,
		Title:        info.Title,
		Author:       author,
		Album:        info.Album,
		ThumbnailURL: info.Thumbnail,
	}
	for _, t := range info.Thumbnails {
		v.Thumbnails = append(v.Thumbnails, source.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}
	for _, f := range info.Formats {
		bitrate := f.ABR
		if bitrate == 0 {
			bitrate = f.TBR
		}
		v.Formats = append(v.Formats, source.Format{
			ID:       f.FormatID,
			HasAudio: f.HasAudio(),
			HasVideo: f.HasVideo(),
			URL:      f.URL,
			Bitrate:  int(bitrate * 1000),
		})
	}
	return v
}
