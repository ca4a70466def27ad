package youtube_v2

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/services/source"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

func (s *Service) Lookup(ctx context.Context, url string) (*source.Video, error) {
	video, err := s.getVideo(ctx, s.newClient(), url)
	if err != nil {
		return nil, &source.ExtractionError{URL: url, Cause: err}
	}
	return normalize(video), nil
}

// StreamURL deciphers the direct URL of f. kkdai leaves Format.URL empty for ciphered formats.
func (s *Service) StreamURL(ctx context.Context, v *source.Video, f source.Format) (string, error) {
	client := s.newClient()
	video, err := s.getVideo(ctx, client, v.ID)
	if err != nil {
		return "", err
	}
	itag, err := strconv.Atoi(f.ID)
	if err != nil {
		return "", fmt.Errorf("invalid itag %q: %w", f.ID, err)
	}
	var format *youtube.Format
	for i := range video.Formats {
		if video.Formats[i].ItagNo == itag {
			format = &video.Formats[i]
			break
		}
	}
	if format == nil {
		return "", fmt.Errorf("format %d not offered for %s", itag, v.ID)
	}
	streamURL, err := client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to resolve stream url", zap.String("id", v.ID), zap.Int("itag", itag), zap.Error(err))
		return "", fmt.Errorf("failed to resolve stream url: %w", err)
	}
	return streamURL, nil
}

// FetchAudio streams the highest bitrate audio format into the temp dir and transcodes it to outPath.
func (s *Service) FetchAudio(ctx context.Context, url string, outPath string) error {
	client := s.newClient()
	video, err := s.getVideo(ctx, client, url)
	if err != nil {
		return &source.ExtractionError{URL: url, Cause: err}
	}
	zaplog.InfoC(ctx, "getting best audio format", zap.String("id", video.ID))
	bestFormat := getBestAudioFormat(video.Formats)
	if bestFormat == nil {
		zaplog.ErrorC(ctx, "failed to get best audio format", zap.String("id", video.ID))
		return fmt.Errorf("no audio format offered for %s", video.ID)
	}
	zaplog.InfoC(ctx, "best audio format found", zap.String("id", video.ID), zap.Int("bitrate", bestFormat.Bitrate))

	stream, _, err := client.GetStreamContext(ctx, video, bestFormat)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to get stream", zap.String("id", video.ID), zap.Error(err))
		return fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	tempFile, err := os.CreateTemp(s.Config.TempDir, video.ID+"-*.temp")
	if err != nil {
		zaplog.ErrorC(ctx, "failed to create temp file", zap.String("id", video.ID), zap.Error(err))
		return err
	}
	defer os.Remove(tempFile.Name())
	if _, err := io.Copy(tempFile, stream); err != nil {
		tempFile.Close()
		zaplog.ErrorC(ctx, "failed to read stream", zap.String("id", video.ID), zap.Error(err))
		return fmt.Errorf("failed to read stream: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	zaplog.InfoC(ctx, "successfully downloaded youtube stream", zap.String("id", video.ID))

	return s.Converter.Convert(ctx, tempFile.Name(), outPath)
}

// getVideo uses the android player; kkdai moves client to the embedded player itself when the
// video needs a login, and the same client must then fetch the stream.
func (s *Service) getVideo(ctx context.Context, client *youtube.Client, url string) (*youtube.Video, error) {
	zaplog.InfoC(ctx, "getting video info", zap.String("url", url))
	video, err := client.GetVideoContext(ctx, url)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to get video info", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}
	zaplog.InfoC(ctx, "successfully retrieved video info", zap.String("id", video.ID))
	return video, nil
}

func normalize(video *youtube.Video) *source.Video {
	v := &source.Video{
		ID:     video.ID,
		Title:  video.Title,
		Author: video.Author,
	}
	if video.ID != "" {
		v.ThumbnailURL = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", video.ID)
	}
	for _, t := range video.Thumbnails {
		v.Thumbnails = append(v.Thumbnails, source.Thumbnail{URL: t.URL, Width: int(t.Width), Height: int(t.Height)})
	}
	for _, f := range video.Formats {
		v.Formats = append(v.Formats, source.Format{
			ID:       strconv.Itoa(f.ItagNo),
			HasAudio: f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/"),
			HasVideo: strings.HasPrefix(f.MimeType, "video/"),
			URL:      f.URL,
			Bitrate:  f.Bitrate,
		})
	}
	return v
}

func getBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var bestFormat *youtube.Format
	maxBitrate := 0
	for _, format := range formats.Type("audio") {
		if format.Bitrate > maxBitrate {
			best := format
			bestFormat = &best
			maxBitrate = format.Bitrate
		}
	}
	if bestFormat != nil {
		return bestFormat
	}
	for _, format := range formats {
		if format.AudioChannels > 0 && (bestFormat == nil || format.Bitrate > bestFormat.Bitrate) {
			best := format
			bestFormat = &best
		}
	}
	return bestFormat
}
