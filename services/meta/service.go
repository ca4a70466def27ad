package meta

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gcottom/go-zaplog"
	"go.uber.org/zap"
)

var (
	parenthesisRegex = regexp.MustCompile(`\([^\(\)]*\)|\[[^\[\]]*\]`)
	nonWordRegex     = regexp.MustCompile(`[^a-zA-Z0-9\s\:\-]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	authorNoiseRegex = regexp.MustCompile(` - official|-official|official| - vevo|-vevo|vevo|@| - topic|-topic|topic`)
)

// Enrich looks the song up on Spotify and returns the album and the primary artist's first genre
// of the best matching track.
func (s *Service) Enrich(ctx context.Context, title string, artist string) (Enrichment, error) {
	query := fmt.Sprintf("track:%s artist:%s", s.SanitizeParenthesis(title), s.SanitizeAuthor(artist))
	zaplog.InfoC(ctx, "searching spotify", zap.String("query", query))
	candidates, err := s.Searcher.SearchTracks(ctx, query)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to get spotify meta", zap.Error(err))
		return Enrichment{}, err
	}
	best, ok := s.GetBestMetaMatch(ctx, TrackMeta{Title: title, Artist: artist}, candidates)
	if !ok {
		zaplog.InfoC(ctx, "no spotify match", zap.String("title", title), zap.Int("candidates", len(candidates)))
		return Enrichment{}, nil
	}

	out := Enrichment{Album: best.Album, CoverURL: best.CoverArtURL}
	if best.ArtistID != "" {
		genres, err := s.Searcher.ArtistGenres(ctx, best.ArtistID)
		if err != nil {
			zaplog.WarnC(ctx, "failed to get spotify genres", zap.String("artist", best.Artist), zap.Error(err))
		} else if len(genres) > 0 {
			out.Genre = genres[0]
		}
	}
	zaplog.InfoC(ctx, "spotify match found", zap.String("title", best.Title), zap.String("album", out.Album), zap.String("genre", out.Genre))
	return out, nil
}

// GetBestMetaMatch compares the video's title and uploader against Spotify candidates. Titles like
// "Artist - Song (Official Video)" are split on dashes so either half can match the title or the artist.
func (s *Service) GetBestMetaMatch(ctx context.Context, trackMeta TrackMeta, spotifyMetas []TrackMeta) (TrackMeta, bool) {
	if len(spotifyMetas) == 0 {
		return trackMeta, false
	}
	coverArtist := s.CoverArtistCheck(ctx, trackMeta.Title)
	sanitizedTitle := s.SanitizeString(s.SanitizeParenthesis(trackMeta.Title))
	featStrippedTitle := strings.Split(sanitizedTitle, "feat")[0]

	titles := []string{trackMeta.Title, sanitizedTitle, featStrippedTitle}
	artists := []string{trackMeta.Artist, s.SanitizeAuthor(trackMeta.Artist)}
	if coverArtist != "" {
		artists = append(artists, s.SanitizeAuthor(coverArtist))
	}
	for _, t := range []string{sanitizedTitle, featStrippedTitle} {
		runs := splitRuns(t)
		titles = append(titles, runs...)
		if len(runs) > 1 {
			for _, r := range runs {
				artists = append(artists, s.SanitizeAuthor(r))
			}
		}
	}

	for _, spotifyMeta := range spotifyMetas {
		if coverArtist != "" && s.EqualIgnoringWhitespace(coverArtist, spotifyMeta.Artist) && anyEqual(s, titles, spotifyMeta.Title) {
			return spotifyMeta, true
		}
		if anyEqual(s, titles, spotifyMeta.Title) && anyEqual(s, artists, spotifyMeta.Artist) {
			return spotifyMeta, true
		}
	}
	return trackMeta, false
}

// splitRuns splits on ':' and '-' and returns every run of consecutive parts joined by a space.
func splitRuns(str string) []string {
	parts := strings.Split(strings.ReplaceAll(str, ":", "-"), "-")
	runs := make([]string, 0, len(parts)*(len(parts)+1)/2)
	for i := range parts {
		for j := i + 1; j <= len(parts); j++ {
			run := strings.Join(parts[i:j], " ")
			runs = append(runs, strings.TrimSpace(whitespaceRegex.ReplaceAllString(run, " ")))
		}
	}
	return runs
}

func anyEqual(s *Service, candidates []string, target string) bool {
	for _, c := range candidates {
		if c != "" && s.EqualIgnoringWhitespace(c, target) {
			return true
		}
	}
	return false
}

func (s *Service) SanitizeString(str string) string {
	return nonWordRegex.ReplaceAllString(str, "")
}

func (s *Service) SanitizeParenthesis(str string) string {
	return strings.TrimSpace(parenthesisRegex.ReplaceAllString(str, ""))
}

func (s *Service) EqualIgnoringWhitespace(s1, s2 string) bool {
	return strings.EqualFold(whitespaceRegex.ReplaceAllString(s1, ""), whitespaceRegex.ReplaceAllString(s2, ""))
}

// CoverArtistCheck returns the performer named by "(cover by X)", "(covered by X)" or "(X cover)".
func (s *Service) CoverArtistCheck(ctx context.Context, str string) string {
	for _, group := range parenthesisRegex.FindAllString(strings.ToLower(str), -1) {
		inner := strings.TrimSpace(strings.Trim(group, "()[]"))
		switch {
		case strings.Contains(inner, "covered by"):
			return strings.TrimSpace(strings.Replace(inner, "covered by", "", 1))
		case strings.Contains(inner, "cover by"):
			return strings.TrimSpace(strings.Replace(inner, "cover by", "", 1))
		case strings.HasSuffix(inner, "cover"):
			return strings.TrimSpace(strings.TrimSuffix(inner, "cover"))
		}
	}
	return ""
}

func (s *Service) SanitizeAuthor(author string) string {
	author = strings.ToLower(author)
	author = authorNoiseRegex.ReplaceAllString(author, "")
	return strings.TrimSpace(author)
}
