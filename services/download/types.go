package download

import (
	"context"

	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/services/cover"
	"github.com/gcottom/zeromusic/services/meta"
	"github.com/gcottom/zeromusic/services/source"
	"github.com/gcottom/zeromusic/services/tagger"
	"github.com/gcottom/zeromusic/song_sql"
)

type DownloadService interface {
	DownloadAudio(ctx context.Context, url string, customTitle string, customAuthor string) (string, error)
}

// SongStore is the catalog write the orchestrator needs.
type SongStore interface {
	InsertSong(ctx context.Context, song song_sql.Song) (int64, error)
}

type Service struct {
	Config  *config.Config
	Source  source.Source
	Cover   cover.CoverService
	Tagger  tagger.TaggerService
	Meta    meta.MetaService
	SongSQL SongStore
}

// NewDownloadService wires the orchestrator. metaService may be nil to skip enrichment.
func NewDownloadService(cfg *config.Config, src source.Source, songSQL SongStore, metaService meta.MetaService) *Service {
	return &Service{
		Config:  cfg,
		Source:  src,
		Cover:   cover.NewCoverService(cfg),
		Tagger:  tagger.NewTaggerService(),
		Meta:    metaService,
		SongSQL: songSQL,
	}
}
