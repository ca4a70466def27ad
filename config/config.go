package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceYoutube = "youtube"
	SourceYTDLP   = "ytdlp"
)

type Config struct {
	DownloadDir string `yaml:"downloadDir"`
	TempDir     string `yaml:"tempDir"`
	DBPath      string `yaml:"dbPath"`
	FFMPEGPath  string `yaml:"ffmpegPath"`
	YTDLPPath   string `yaml:"ytdlpPath"`
	Source      string `yaml:"source"`
	Bitrate     string `yaml:"bitrate"`
	Shell       struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"shell"`
	Spotify struct {
		ClientID     string `yaml:"clientID"`
		ClientSecret string `yaml:"clientSecret"`
	} `yaml:"spotify"`
	Timeouts struct {
		Thumbnail time.Duration `yaml:"thumbnail"`
	} `yaml:"timeouts"`
	Cover struct {
		Size          int `yaml:"size"`
		Quality       int `yaml:"quality"`
		FetchAttempts int `yaml:"fetchAttempts"`
	} `yaml:"cover"`
	Preview struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"preview"`

	// YTDLPArgs are passed to every yt-dlp call, e.g. --cookies.
	YTDLPArgs []string `yaml:"ytdlpArgs"`
}

func LoadConfigFromFile(path string) (*Config, error) {
	if path == "" {
		path = "config/config.yaml"
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	dec := yaml.NewDecoder(file)
	err = dec.Decode(&config)
	if err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	return &config, nil
}

// ApplyDefaults fills every unset key. The download folder and catalog default to the
// locations the desktop app always used: ~/Music/0music and a music.db under the user config dir.
func (c *Config) ApplyDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	if c.DownloadDir == "" {
		c.DownloadDir = filepath.Join(home, "Music", "0music")
	}
	if c.TempDir == "" {
		c.TempDir = filepath.Join(os.TempDir(), "zeromusic")
	}
	if c.DBPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = home
		}
		c.DBPath = filepath.Join(dir, "zeromusic", "music.db")
	}
	if c.FFMPEGPath == "" {
		c.FFMPEGPath = "ffmpeg"
	}
	if c.YTDLPPath == "" {
		c.YTDLPPath = "yt-dlp"
	}
	if c.Source == "" {
		c.Source = SourceYoutube
	}
	if c.Bitrate == "" {
		c.Bitrate = "192k"
	}
	if c.Shell.Host == "" {
		c.Shell.Host = "127.0.0.1"
	}
	if c.Shell.Port == 0 {
		c.Shell.Port = 8765
	}
	if c.Timeouts.Thumbnail <= 0 {
		c.Timeouts.Thumbnail = 10 * time.Second
	}
	if c.Cover.Size <= 0 {
		c.Cover.Size = 500
	}
	if c.Cover.Quality <= 0 || c.Cover.Quality > 100 {
		c.Cover.Quality = 95
	}
	if c.Cover.FetchAttempts <= 0 {
		c.Cover.FetchAttempts = 1
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = 338
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = 190
	}
}

// EnsureDirectories creates the download folder, the temp folder and the catalog's parent folder.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DownloadDir, c.TempDir, filepath.Dir(c.DBPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// SpotifyEnabled reports whether credentials for metadata enrichment are present.
func (c *Config) SpotifyEnabled() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}
