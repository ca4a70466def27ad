package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/pkg/filename"
	"github.com/gcottom/zeromusic/services/extractor"
	"github.com/gcottom/zeromusic/services/tagger"
	"github.com/gcottom/zeromusic/song_sql"
	"go.uber.org/zap"
)

// DownloadAudio looks the video up again, writes its audio as a tagged MP3 into the download
// folder and records it in the catalog. It returns the display title.
func (s *Service) DownloadAudio(ctx context.Context, url string, customTitle string, customAuthor string) (string, error) {
	zaplog.InfoC(ctx, "processing download", zap.String("url", url))
	video, err := s.Source.Lookup(ctx, url)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to look up video", zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("failed to look up video: %w", err)
	}

	title := firstNonEmpty(customTitle, video.Title, tagger.UnknownTitle)
	author := firstNonEmpty(customAuthor, video.Author, tagger.UnknownArtist)
	album := firstNonEmpty(video.Album, title)
	var genre, albumArt string

	if s.Meta != nil {
		enrichment, err := s.Meta.Enrich(ctx, firstNonEmpty(video.Title, title), author)
		if err != nil {
			zaplog.WarnC(ctx, "metadata enrichment failed, continuing", zap.String("url", url), zap.Error(err))
		} else {
			if video.Album == "" && enrichment.Album != "" {
				album = enrichment.Album
			}
			genre = enrichment.Genre
			albumArt = enrichment.CoverURL
		}
	}

	fileName := filename.Sanitize(title) + ".mp3"
	outPath := filepath.Join(s.Config.DownloadDir, fileName)

	if err := s.Source.FetchAudio(ctx, url, outPath); err != nil {
		zaplog.ErrorC(ctx, "failed to download audio", zap.String("url", url), zap.String("path", outPath), zap.Error(err))
		return "", fmt.Errorf("failed to download audio: %w", err)
	}

	coverPath := s.prepareCover(ctx, extractor.SelectThumbnail(video), albumArt)
	defer func() {
		if coverPath != "" {
			os.Remove(coverPath)
		}
	}()

	res := s.Tagger.Apply(ctx, outPath, tagger.Meta{Title: title, Artist: author, Album: album, CoverPath: coverPath})
	if res.Status == tagger.Failed {
		zaplog.WarnC(ctx, "file saved without tags", zap.String("path", outPath), zap.Error(res.Err))
	}

	song := song_sql.Song{
		Title:      title,
		Author:     author,
		Genre:      genre,
		Downloaded: time.Now(),
		Filename:   fileName,
		URL:        url,
	}
	// The file is already on disk, so the row is written even if ctx was cancelled meanwhile.
	id, err := s.SongSQL.InsertSong(context.WithoutCancel(ctx), song)
	if err != nil {
		// The MP3 stays where it is; nothing rolls it back.
		zaplog.ErrorC(ctx, "failed to record song, file left on disk", zap.String("path", outPath), zap.Error(err))
		return "", fmt.Errorf("failed to record song: %w", err)
	}
	zaplog.InfoC(ctx, "download complete", zap.Int64("song_id", id), zap.String("title", title), zap.String("tags", res.Status.String()))
	return title, nil
}

// prepareCover tries the video thumbnail first and the Spotify album art second. An empty
// path means the song is tagged without a cover.
func (s *Service) prepareCover(ctx context.Context, urls ...string) string {
	for _, u := range urls {
		if u == "" {
			continue
		}
		coverPath, err := s.Cover.Prepare(ctx, u)
		if err == nil {
			return coverPath
		}
		zaplog.WarnC(ctx, "failed to prepare cover art", zap.String("cover_url", u), zap.Error(err))
	}
	zaplog.WarnC(ctx, "continuing without cover art")
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
