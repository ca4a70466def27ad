package song_sql

import (
	"database/sql"

	"github.com/gcottom/semaphore"
	"github.com/gcottom/zeromusic/config"
	_ "modernc.org/sqlite"
)

func NewClient(cfg *config.Config) (*Client, error) {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{
		Config:    cfg,
		SQLClient: db,
		Semaphore: semaphore.NewSemaphore(1),
	}, nil
}

func CreateTables(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS music (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"title" TEXT,
		"author" TEXT,
		"genre" TEXT,
		"downloaded" DATETIME DEFAULT CURRENT_TIMESTAMP,
		"filename" TEXT,
		"lurl" TEXT
	);`)
	return err
}

func (c *Client) Close() error {
	return c.SQLClient.Close()
}
