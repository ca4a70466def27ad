package extractor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/pkg/imaging"
	"github.com/gcottom/zeromusic/services/source"
	"go.uber.org/zap"
)

func (s *Service) Extract(ctx context.Context, url string) (*VideoInfo, error) {
	zaplog.InfoC(ctx, "extracting video info", zap.String("url", url))
	video, err := s.Source.Lookup(ctx, url)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to look up video", zap.String("url", url), zap.Error(err))
		var ee *source.ExtractionError
		if !errors.As(err, &ee) {
			err = &source.ExtractionError{URL: url, Cause: err}
		}
		return nil, err
	}

	info := &VideoInfo{
		Title:        video.Title,
		Author:       video.Author,
		Album:        video.Album,
		ThumbnailURL: SelectThumbnail(video),
	}
	if info.Album == "" {
		info.Album = info.Title
	}

	if f, ok := SelectStream(video.Formats); ok {
		info.StreamURL = f.URL
		if info.StreamURL == "" {
			info.StreamURL, err = s.Source.StreamURL(ctx, video, f)
			if err != nil {
				zaplog.WarnC(ctx, "no stream url for preview", zap.String("url", url), zap.String("format", f.ID), zap.Error(err))
			}
		}
	} else {
		zaplog.WarnC(ctx, "video offers no audio format", zap.String("url", url))
	}

	if info.ThumbnailURL != "" {
		img, err := s.fetchThumbnail(ctx, info.ThumbnailURL)
		if err != nil {
			zaplog.WarnC(ctx, "failed to load thumbnail", zap.String("thumbnail", info.ThumbnailURL), zap.Error(err))
		} else {
			info.Thumbnail = imaging.Fit(img, s.Config.Preview.Width, s.Config.Preview.Height)
		}
	}

	zaplog.InfoC(ctx, "video info extracted", zap.String("title", info.Title), zap.String("author", info.Author))
	return info, nil
}

func (s *Service) fetchThumbnail(ctx context.Context, url string) (image.Image, error) {
	data, err := s.HTTPClient.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("thumbnail is %s, not an image", mt.String())
	}
	img, _, err := imaging.Decode(data)
	return img, err
}

// SelectThumbnail picks the largest advertised thumbnail by area, the first one on ties.
// Without a variant list it falls back to the default thumbnail URL, which may be empty.
func SelectThumbnail(video *source.Video) string {
	if len(video.Thumbnails) == 0 {
		return video.ThumbnailURL
	}
	best := video.Thumbnails[0]
	for _, t := range video.Thumbnails[1:] {
		if t.Width*t.Height > best.Width*best.Height {
			best = t
		}
	}
	return best.URL
}

// SelectStream returns the first audio-only format, else the first format carrying audio.
func SelectStream(formats []source.Format) (source.Format, bool) {
	for _, f := range formats {
		if f.HasAudio && !f.HasVideo {
			return f, true
		}
	}
	for _, f := range formats {
		if f.HasAudio {
			return f, true
		}
	}
	return source.Format{}, false
}
