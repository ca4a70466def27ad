package song_sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertSong appends song and returns its new id. Writes from this process go one at a time.
func (c *Client) InsertSong(ctx context.Context, song Song) (int64, error) {
	c.Semaphore.Acquire()
	defer c.Semaphore.Release()
	res, err := c.SQLClient.ExecContext(ctx, "INSERT INTO music (title, author, genre, downloaded, filename, lurl) VALUES (?, ?, ?, ?, ?, ?)",
		song.Title, song.Author, song.Genre, song.Downloaded, song.Filename, song.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert song: %w", err)
	}
	return res.LastInsertId()
}

func (c *Client) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := c.SQLClient.QueryContext(ctx, "SELECT id, title, author, genre, downloaded, filename, lurl FROM music ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()
	songs := make([]Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (c *Client) GetSong(ctx context.Context, id int64) (Song, error) {
	row := c.SQLClient.QueryRowContext(ctx, "SELECT id, title, author, genre, downloaded, filename, lurl FROM music WHERE id = ?", id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	return song, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (Song, error) {
	var song Song
	var title, author, genre, filename, url sql.NullString
	var downloaded sql.NullTime
	if err := row.Scan(&song.ID, &title, &author, &genre, &downloaded, &filename, &url); err != nil {
		return Song{}, err
	}
	song.Title, song.Author, song.Genre = title.String, author.String, genre.String
	song.Filename, song.URL = filename.String, url.String
	song.Downloaded = downloaded.Time
	return song, nil
}
