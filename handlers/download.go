package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"notes-web/middleware"
	"notes-web/models"
)

// DownloadSummaryHandler sends the session's newest notes as AI_Notes.pdf.
func (h *Handler) DownloadSummaryHandler(c *gin.Context) {
	h.downloadLatest(c, models.KindSummary)
}

// DownloadTranslatedHandler sends the newest translation as Translated_AI_Notes.pdf.
func (h *Handler) DownloadTranslatedHandler(c *gin.Context) {
	h.downloadLatest(c, models.KindTranslation)
}

// DownloadJobHandler sends one specific job's PDF.
func (h *Handler) DownloadJobHandler(c *gin.Context) {
	job, ok := h.Store.Get(middleware.GetSessionID(c), c.Param("jobId"))
	if !ok {
		h.errorPage(c, http.StatusNotFound, "These notes do not exist or have expired.")
		return
	}
	h.sendJob(c, job)
}

func (h *Handler) downloadLatest(c *gin.Context, kind models.JobKind) {
	job, ok := h.Store.Latest(middleware.GetSessionID(c), kind)
	if !ok {
		h.errorPage(c, http.StatusNotFound, "Nothing to download yet. Upload a PDF first.")
		return
	}
	h.sendJob(c, job)
}

func (h *Handler) sendJob(c *gin.Context, job *models.Job) {
	if _, err := os.Stat(job.OutputPath); err != nil {
		h.Log.WithError(err).WithField("job", job.ID).Warn("rendered PDF missing")
		h.errorPage(c, http.StatusNotFound, "The PDF for these notes is no longer available.")
		return
	}
	c.FileAttachment(job.OutputPath, job.DownloadName())
}
