package tagger

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/gcottom/go-zaplog"
	"go.uber.org/zap"
)

// Apply rewrites the ID3v2 title, artist, album and front cover of the MP3 at path.
// It never fails outright; every problem is logged and reported through the Result.
func (s *Service) Apply(ctx context.Context, path string, m Meta) Result {
	m = withDefaults(m)
	zaplog.InfoC(ctx, "writing tags", zap.String("path", path), zap.String("title", m.Title), zap.String("artist", m.Artist))

	mp3Tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		zaplog.ErrorC(ctx, "failed to open mp3 for tagging", zap.String("path", path), zap.Error(err))
		return Result{Status: Failed, Err: fmt.Errorf("failed to open %s: %w", path, err)}
	}
	defer mp3Tag.Close()

	mp3Tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	mp3Tag.SetTitle(m.Title)
	mp3Tag.SetArtist(m.Artist)
	mp3Tag.SetAlbum(m.Album)

	var coverErr error
	if m.CoverPath != "" {
		coverErr = attachCover(mp3Tag, m.CoverPath)
		if coverErr != nil {
			zaplog.WarnC(ctx, "writing tags without cover", zap.String("cover", m.CoverPath), zap.Error(coverErr))
		}
	}

	if err := mp3Tag.Save(); err != nil {
		zaplog.ErrorC(ctx, "failed to save tags", zap.String("path", path), zap.Error(err))
		return Result{Status: Failed, Err: fmt.Errorf("failed to save tags: %w", err)}
	}
	if m.CoverPath == "" || coverErr != nil {
		return Result{Status: AppliedWithoutCover, Err: coverErr}
	}
	zaplog.InfoC(ctx, "tags written", zap.String("path", path))
	return Result{Status: Applied}
}

func attachCover(mp3Tag *id3v2.Tag, coverPath string) error {
	data, err := os.ReadFile(coverPath)
	if err != nil {
		return err
	}
	mp3Tag.DeleteFrames(mp3Tag.CommonID("Attached picture"))
	mp3Tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    coverMIME(coverPath),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	})
	return nil
}

// coverMIME guesses from the extension and falls back to image/jpeg for anything that is not an image type.
func coverMIME(path string) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	if !strings.HasPrefix(mt, "image/") {
		return "image/jpeg"
	}
	return mt
}

func withDefaults(m Meta) Meta {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = UnknownTitle
	}
	if strings.TrimSpace(m.Artist) == "" {
		m.Artist = UnknownArtist
	}
	if strings.TrimSpace(m.Album) == "" {
		m.Album = UnknownAlbum
	}
	return m
}

// Read returns the tags stored in the audio file at path.
func Read(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	t := Tags{
		Title:  md.Title(),
		Artist: md.Artist(),
		Album:  md.Album(),
		Genre:  md.Genre(),
	}
	if pic := md.Picture(); pic != nil {
		t.HasCover = true
		t.CoverMIME = pic.MIMEType
	}
	return t, nil
}
