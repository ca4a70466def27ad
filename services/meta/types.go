package meta

import (
	"context"

	"github.com/gcottom/zeromusic/config"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

type MetaService interface {
	Enrich(ctx context.Context, title string, artist string) (Enrichment, error)
}

// Searcher is the part of the Spotify catalogue enrichment needs.
type Searcher interface {
	SearchTracks(ctx context.Context, query string) ([]TrackMeta, error)
	ArtistGenres(ctx context.Context, id spotify.ID) ([]string, error)
}

type Service struct {
	Config   *config.Config
	Searcher Searcher
}

// Enrichment holds what Spotify adds to a download. Empty fields mean no match.
type Enrichment struct {
	Album    string
	Genre    string
	CoverURL string
}

type TrackMeta struct {
	Title       string
	Artist      string
	ArtistID    spotify.ID
	Album       string
	CoverArtURL string
}

func NewMetaService(cfg *config.Config) *Service {
	return &Service{
		Config: cfg,
		Searcher: &spotifySearcher{SpotifyConfig: &clientcredentials.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}},
	}
}
