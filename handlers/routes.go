package handlers

import (
	"github.com/gcottom/zeromusic/services/tasks"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the shell's API and hooks the session into task completion.
func SetupRoutes(router *gin.Engine, h *Handler) {
	h.Runner.OnDone(tasks.KindPreview, h.onPreviewDone)
	h.Runner.OnDone(tasks.KindDownload, h.onDownloadDone)

	router.Group("/api").
		POST("/preview", h.StartPreview).
		GET("/preview", h.GetPreview).
		GET("/preview/image", h.GetPreviewImage).
		POST("/download", h.StartDownload).
		POST("/play", h.Play).
		GET("/tasks/:kind", h.GetTask).
		GET("/tasks/:kind/:id", h.GetTaskByID).
		GET("/session", h.GetSession).
		GET("/songs", h.ListSongs).
		GET("/songs/:id", h.GetSong)
}
