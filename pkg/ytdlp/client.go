package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gcottom/go-zaplog"
	"go.uber.org/zap"
)

type ExecError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ExecError) Error() string {
	cmdline := strings.TrimSpace(e.Cmd + " " + strings.Join(e.Args, " "))
	if e.ExitCode != 0 {
		return fmt.Sprintf("ytdlp: command failed (exit %d): %s", e.ExitCode, cmdline)
	}
	return fmt.Sprintf("ytdlp: command failed: %s", cmdline)
}

func (e *ExecError) Unwrap() error { return e.Cause }

type Client struct {
	// Path to the yt-dlp executable, "yt-dlp" when empty.
	Path string

	// ExtraArgs are placed before the per-call args.
	ExtraArgs []string

	execFn func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

func New(path string) *Client {
	return &Client{Path: path}
}

// PathOrDefault returns the configured path or "yt-dlp" if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return "yt-dlp"
	}
	return c.Path
}

func (c *Client) exec(ctx context.Context, args ...string) ([]byte, []byte, error) {
	name := c.PathOrDefault()
	fullArgs := append(append([]string{}, c.ExtraArgs...), args...)
	if c.execFn != nil {
		return c.execFn(ctx, name, fullArgs...)
	}

	zaplog.InfoC(ctx, "executing yt-dlp", zap.String("cmd", name), zap.Strings("args", fullArgs))
	cmd := exec.CommandContext(ctx, name, fullArgs...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Format struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	ACodec   string  `json:"acodec"`
	VCodec   string  `json:"vcodec"`
	ABR      float64 `json:"abr"`
	TBR      float64 `json:"tbr"`
}

// HasAudio reports whether yt-dlp advertised an audio codec. yt-dlp uses "none" for absent
// codecs and leaves the field empty when it could not tell.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// Info models the fields of --dump-single-json that the music pipeline reads.
type Info struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader"`
	Channel    string      `json:"channel"`
	Artist     string      `json:"artist"`
	Album      string      `json:"album"`
	Thumbnail  string      `json:"thumbnail"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Formats    []Format    `json:"formats"`
}

// GetInfo runs yt-dlp with --dump-single-json --skip-download and parses the result.
func (c *Client) GetInfo(ctx context.Context, url string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}
	args := []string{"--dump-single-json", "--skip-download", "--no-playlist", url}
	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stderr, err)
	}
	var info Info
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse json: %w", err)
	}
	return &info, nil
}

// OutputTemplate turns the final mp3 path into a yt-dlp output template. The download keeps its
// own extension until the audio extractor rewrites it to .mp3, landing on outPath.
func OutputTemplate(outPath string) string {
	base := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	return strings.ReplaceAll(base, "%", "%%") + ".%(ext)s"
}

// ExtractAudio downloads the best audio of url and has yt-dlp transcode it to mp3 at
// bitrate, written to outPath. ffmpegPath is handed to yt-dlp when set.
func (c *Client) ExtractAudio(ctx context.Context, url, outPath, bitrate, ffmpegPath string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(outPath) == "" {
		return fmt.Errorf("ytdlp: outPath is required")
	}
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", bitrate,
		"--no-playlist",
		"--force-overwrites",
		"-o", OutputTemplate(outPath),
	}
	if ffmpegPath != "" {
		args = append(args, "--ffmpeg-location", ffmpegPath)
	}
	args = append(args, url)

	_, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stderr, err)
	}
	return nil
}

func wrapExecError(cmd string, args []string, stderr []byte, cause error) error {
	exitCode := 0
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}
	return &ExecError{
		Cmd:      cmd,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(string(stderr)),
		Cause:    cause,
	}
}
