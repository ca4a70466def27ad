package handlers

import (
	"net/http"
	"time"

	"github.com/gcottom/zeromusic/services/tagger"
	"github.com/gin-gonic/gin"
)

type Failure struct {
	Error string `json:"error"`
}

type URLRequest struct {
	URL string `json:"url"`
}

type DownloadRequest struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// TaskStartedResponse carries Playable on previews whose URL is a YouTube watch link a browser can open.
type TaskStartedResponse struct {
	TaskID   string `json:"task_id"`
	Playable bool   `json:"playable,omitempty"`
}

type PlayResponse struct {
	URL string `json:"url"`
}

type PreviewResponse struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Album        string `json:"album"`
	ThumbnailURL string `json:"thumbnail_url"`
	StreamURL    string `json:"stream_url"`
	HasImage     bool   `json:"has_image"`
}

type TaskResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	Title      string     `json:"title,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type SongResponse struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Genre         string       `json:"genre"`
	Downloaded    time.Time    `json:"downloaded"`
	DownloadedAgo string       `json:"downloaded_ago"`
	Filename      string       `json:"filename"`
	URL           string       `json:"url"`
	Tags          *tagger.Tags `json:"tags,omitempty"`
}

type SessionResponse struct {
	URL          string `json:"url"`
	OutputDir    string `json:"output_dir"`
	LastDownload string `json:"last_download"`
	LastError    string `json:"last_error,omitempty"`
	HasPreview   bool   `json:"has_preview"`
}

func ResponseFailure(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, Failure{err.Error()})
}

func ResponseNotFound(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusNotFound, Failure{err.Error()})
}

func ResponseInternalError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusInternalServerError, Failure{err.Error()})
}

func ResponseSuccess(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}

func ResponseAccepted(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusAccepted, data)
}
