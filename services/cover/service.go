package cover

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/retry"
	"github.com/gcottom/zeromusic/pkg/imaging"
	"go.uber.org/zap"
)

// Prepare downloads the image at url and writes the embedded cover to a temp JPEG: centered
// square crop, resized to the configured size, alpha flattened. The caller removes the file.
func (s *Service) Prepare(ctx context.Context, url string) (string, error) {
	zaplog.InfoC(ctx, "preparing cover art", zap.String("url", url))
	data, err := s.fetchWithRetry(ctx, url)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to fetch cover art", zap.String("url", url), zap.Error(err))
		return "", err
	}

	img, format, err := imaging.Decode(data)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to decode cover art", zap.String("url", url), zap.Error(err))
		return "", err
	}

	out, err := os.CreateTemp(s.Config.TempDir, "cover-*.jpg")
	if err != nil {
		zaplog.ErrorC(ctx, "failed to create cover temp file", zap.Error(err))
		return "", err
	}
	if err := imaging.EncodeJPEG(out, imaging.Cover(img, s.Config.Cover.Size), s.Config.Cover.Quality); err != nil {
		out.Close()
		os.Remove(out.Name())
		zaplog.ErrorC(ctx, "failed to encode cover art", zap.Error(err))
		return "", fmt.Errorf("failed to encode cover art: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	zaplog.InfoC(ctx, "cover art prepared", zap.String("path", out.Name()), zap.String("source_format", format))
	return out.Name(), nil
}

// fetchWithRetry skips the retry helper for a single attempt; it sleeps after the last failure too.
func (s *Service) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	if s.Config.Cover.FetchAttempts <= 1 {
		return s.fetchCover(ctx, url)
	}
	res, err := retry.Retry(retry.NewAlgSimpleDefault(), s.Config.Cover.FetchAttempts, s.fetchCover, ctx, url)
	if err != nil {
		return nil, err
	}
	return res[0].([]byte), nil
}

func (s *Service) fetchCover(ctx context.Context, url string) ([]byte, error) {
	data, err := s.HTTPClient.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("cover art is %s, not an image", mt.String())
	}
	return data, nil
}
