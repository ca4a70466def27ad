package song_sql

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gcottom/semaphore"
	"github.com/gcottom/zeromusic/config"
)

var ErrSongNotFound = errors.New("song not found")

type Client struct {
	Config    *config.Config
	SQLClient *sql.DB
	Semaphore *semaphore.Semaphore
}

// Song is one completed download. Rows are never updated or deleted.
type Song struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Genre      string    `json:"genre"`
	Downloaded time.Time `json:"downloaded"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
}
