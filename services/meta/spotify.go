package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/gcottom/go-zaplog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

type spotifySearcher struct {
	SpotifyConfig *clientcredentials.Config
}

func (s *spotifySearcher) client(ctx context.Context) (*spotify.Client, error) {
	token, err := s.SpotifyConfig.Token(ctx)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to get spotify token", zap.Error(err))
		return nil, err
	}
	return spotify.New(spotifyauth.New().Client(ctx, token)), nil
}

func (s *spotifySearcher) SearchTracks(ctx context.Context, query string) ([]TrackMeta, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	res, err := client.Search(ctx, query, spotify.SearchTypeTrack)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to search spotify", zap.Error(err))
		return nil, err
	}
	if res.Tracks == nil {
		return nil, nil
	}

	seen := make(map[spotify.ID]bool)
	trackMetas := make([]TrackMeta, 0, len(res.Tracks.Tracks))
	for _, track := range res.Tracks.Tracks {
		if seen[track.ID] {
			continue
		}
		seen[track.ID] = true
		resMeta := TrackMeta{Title: track.Name, Album: track.Album.Name}
		if len(track.Album.Images) > 0 {
			resMeta.CoverArtURL = track.Album.Images[0].URL
		}
		artists := make([]string, 0, len(track.Artists))
		for _, artist := range track.Artists {
			artists = append(artists, artist.Name)
		}
		if len(track.Artists) > 0 {
			resMeta.ArtistID = track.Artists[0].ID
		}
		resMeta.Artist = strings.Join(artists, ", ")
		trackMetas = append(trackMetas, resMeta)
	}
	return trackMetas, nil
}

func (s *spotifySearcher) ArtistGenres(ctx context.Context, id spotify.ID) ([]string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	artist, err := client.GetArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get spotify artist %s: %w", id, err)
	}
	return artist.Genres, nil
}
