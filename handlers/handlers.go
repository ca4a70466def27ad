package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/zeromusic/config"
	"github.com/gcottom/zeromusic/pkg/imaging"
	"github.com/gcottom/zeromusic/services/download"
	"github.com/gcottom/zeromusic/services/extractor"
	"github.com/gcottom/zeromusic/services/tagger"
	"github.com/gcottom/zeromusic/services/tasks"
	"github.com/gcottom/zeromusic/song_sql"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SongReader is the read side of the catalog.
type SongReader interface {
	ListSongs(ctx context.Context) ([]song_sql.Song, error)
	GetSong(ctx context.Context, id int64) (song_sql.Song, error)
}

type Handler struct {
	Config           *config.Config
	Session          *Session
	Runner           *tasks.Runner
	ExtractorService extractor.ExtractorService
	DownloadService  download.DownloadService
	Songs            SongReader
}

type previewResult struct {
	url  string
	info *extractor.VideoInfo
}

func (h *Handler) StartPreview(ctx *gin.Context) {
	var req URLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ResponseFailure(ctx, fmt.Errorf("invalid request body: %w", err))
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		zaplog.WarnC(ctx.Request.Context(), "preview request without url")
		ResponseFailure(ctx, errors.New("Missing URL"))
		return
	}
	h.Session.SetURL(url)
	task := h.Runner.Start(tasks.KindPreview, func(tctx context.Context) (any, error) {
		info, err := h.ExtractorService.Extract(tctx, url)
		if err != nil {
			return nil, err
		}
		return previewResult{url: url, info: info}, nil
	})
	zaplog.InfoC(ctx.Request.Context(), "preview started", zap.String("url", url), zap.String("task_id", task.ID))
	ResponseAccepted(ctx, TaskStartedResponse{TaskID: task.ID, Playable: IsWatchURL(url)})
}

func (h *Handler) GetPreview(ctx *gin.Context) {
	p, ok := h.Session.Preview()
	if !ok {
		ResponseNotFound(ctx, errors.New("no preview loaded"))
		return
	}
	ResponseSuccess(ctx, PreviewResponse{
		URL:          p.URL,
		Title:        p.Title,
		Author:       p.Author,
		Album:        p.Album,
		ThumbnailURL: p.ThumbnailURL,
		StreamURL:    p.StreamURL,
		HasImage:     len(p.Image) > 0,
	})
}

func (h *Handler) GetPreviewImage(ctx *gin.Context) {
	p, ok := h.Session.Preview()
	if !ok || len(p.Image) == 0 {
		ResponseNotFound(ctx, errors.New("no preview image"))
		return
	}
	ctx.Data(http.StatusOK, "image/jpeg", p.Image)
}

func (h *Handler) StartDownload(ctx *gin.Context) {
	var req DownloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ResponseFailure(ctx, fmt.Errorf("invalid request body: %w", err))
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		zaplog.WarnC(ctx.Request.Context(), "download request without url")
		ResponseFailure(ctx, errors.New("Missing URL"))
		return
	}
	title, author := req.Title, req.Author
	task := h.Runner.Start(tasks.KindDownload, func(tctx context.Context) (any, error) {
		return h.DownloadService.DownloadAudio(tctx, url, title, author)
	})
	zaplog.InfoC(ctx.Request.Context(), "download started", zap.String("url", url), zap.String("task_id", task.ID))
	ResponseAccepted(ctx, TaskStartedResponse{TaskID: task.ID})
}

// IsWatchURL reports whether url points at a single YouTube video page.
func IsWatchURL(url string) bool {
	return strings.Contains(url, "youtube.com/watch?v=") || strings.Contains(url, "youtu.be/")
}

// Play validates the session URL (or the one in the body) so the client can open it in a browser.
func (h *Handler) Play(ctx *gin.Context) {
	var req URLRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ResponseFailure(ctx, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = h.Session.URL()
	}
	if !IsWatchURL(url) {
		ResponseFailure(ctx, errors.New("Please enter a valid YouTube link."))
		return
	}
	ResponseSuccess(ctx, PlayResponse{URL: url})
}

func (h *Handler) GetTask(ctx *gin.Context) {
	kind, err := tasks.ParseKind(ctx.Param("kind"))
	if err != nil {
		ResponseFailure(ctx, fmt.Errorf("%w: %q", err, ctx.Param("kind")))
		return
	}
	task, ok := h.Runner.Latest(kind)
	if !ok {
		ResponseNotFound(ctx, fmt.Errorf("no %s task has run", kind))
		return
	}
	ResponseSuccess(ctx, taskResponse(task))
}

// GetTaskByID also finds tasks that were superseded by a newer one of the same kind.
func (h *Handler) GetTaskByID(ctx *gin.Context) {
	kind, err := tasks.ParseKind(ctx.Param("kind"))
	if err != nil {
		ResponseFailure(ctx, fmt.Errorf("%w: %q", err, ctx.Param("kind")))
		return
	}
	task, ok := h.Runner.Get(ctx.Param("id"))
	if !ok || task.Kind != kind {
		ResponseNotFound(ctx, fmt.Errorf("no %s task %q", kind, ctx.Param("id")))
		return
	}
	ResponseSuccess(ctx, taskResponse(task))
}

func taskResponse(task tasks.Task) TaskResponse {
	resp := TaskResponse{ID: task.ID, Kind: string(task.Kind), Status: string(task.Status), StartedAt: task.StartedAt}
	if !task.FinishedAt.IsZero() {
		resp.FinishedAt = &task.FinishedAt
	}
	if task.Err != nil {
		resp.Error = task.Err.Error()
	}
	switch res := task.Result.(type) {
	case string:
		resp.Title = res
	case previewResult:
		resp.Title = res.info.Title
	}
	return resp
}

func (h *Handler) GetSession(ctx *gin.Context) {
	resp := h.Session.Snapshot()
	resp.OutputDir = h.Config.DownloadDir
	ResponseSuccess(ctx, resp)
}

func (h *Handler) ListSongs(ctx *gin.Context) {
	songs, err := h.Songs.ListSongs(ctx.Request.Context())
	if err != nil {
		zaplog.ErrorC(ctx.Request.Context(), "failed to list songs", zap.Error(err))
		ResponseInternalError(ctx, fmt.Errorf("failed to list songs: %w", err))
		return
	}
	resp := make([]SongResponse, 0, len(songs))
	for _, s := range songs {
		resp = append(resp, songResponse(s))
	}
	ResponseSuccess(ctx, resp)
}

func (h *Handler) GetSong(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ResponseFailure(ctx, fmt.Errorf("invalid song id %q", ctx.Param("id")))
		return
	}
	song, err := h.Songs.GetSong(ctx.Request.Context(), id)
	if errors.Is(err, song_sql.ErrSongNotFound) {
		ResponseNotFound(ctx, err)
		return
	}
	if err != nil {
		zaplog.ErrorC(ctx.Request.Context(), "failed to get song", zap.Int64("id", id), zap.Error(err))
		ResponseInternalError(ctx, err)
		return
	}
	resp := songResponse(song)
	path := filepath.Join(h.Config.DownloadDir, song.Filename)
	if _, err := os.Stat(path); err == nil {
		tags, err := tagger.Read(path)
		if err != nil {
			zaplog.WarnC(ctx.Request.Context(), "failed to read tags", zap.String("path", path), zap.Error(err))
		} else {
			resp.Tags = &tags
		}
	}
	ResponseSuccess(ctx, resp)
}

func songResponse(s song_sql.Song) SongResponse {
	return SongResponse{
		ID:            s.ID,
		Title:         s.Title,
		Author:        s.Author,
		Genre:         s.Genre,
		Downloaded:    s.Downloaded,
		DownloadedAgo: humanize.Time(s.Downloaded),
		Filename:      s.Filename,
		URL:           s.URL,
	}
}

// onPreviewDone copies the newest preview into the session. Failures only record the error so
// the last good preview stays visible.
func (h *Handler) onPreviewDone(ctx context.Context, t tasks.Task) {
	if t.Err != nil {
		h.Session.SetError(t.Err)
		return
	}
	res := t.Result.(previewResult)
	p := Preview{
		URL:          res.url,
		Title:        res.info.Title,
		Author:       res.info.Author,
		Album:        res.info.Album,
		ThumbnailURL: res.info.ThumbnailURL,
		StreamURL:    res.info.StreamURL,
	}
	if res.info.Thumbnail != nil {
		var buf bytes.Buffer
		if err := imaging.EncodeJPEG(&buf, res.info.Thumbnail, 90); err != nil {
			zaplog.WarnC(ctx, "failed to encode preview", zap.Error(err))
		} else {
			p.Image = buf.Bytes()
		}
	}
	h.Session.SetPreview(p)
}

func (h *Handler) onDownloadDone(ctx context.Context, t tasks.Task) {
	if t.Err != nil {
		h.Session.SetError(t.Err)
		return
	}
	h.Session.SetDownloaded(t.Result.(string))
}
