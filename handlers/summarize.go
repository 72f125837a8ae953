package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notes-web/middleware"
	"notes-web/models"
	"notes-web/notes"
)

type indexPage struct {
	Title     string
	Summary   string
	Error     string
	PDFReady  bool
	Language  notes.Language
	JobID     string
	Languages []notes.Language
}

// IndexPage shows the upload form.
func (h *Handler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage{Title: "AI Notes", Languages: notes.Languages})
}

// SummarizeHandler turns an uploaded PDF into study notes. The "language"
// field is accepted but not used: notes keep the source language, and the
// detected script only picks the PDF font.
func (h *Handler) SummarizeHandler(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	jobID := uuid.New().String()
	log := h.Log.WithFields(logrus.Fields{"session": shortID(sessionID), "job": jobID})
	page := indexPage{Title: "AI Notes", Languages: notes.Languages}

	if requested := c.PostForm("language"); requested != "" {
		log.WithField("requested", requested).Debug("language field ignored on notes route")
	}

	text, filename, err := h.extractUpload(c, sessionID, jobID)
	if err != nil {
		h.fail(c, log, "index.html", &page.Error, &page, err)
		return
	}
	if text == "" {
		page.Error = msgNoText
		c.HTML(http.StatusOK, "index.html", page)
		return
	}

	lang := notes.DetectLanguage(text)
	log = log.WithField("language", lang)
	log.WithField("chars", len(text)).Info("summarizing upload")

	summary, err := h.Notes.Summarize(c.Request.Context(), text, "")
	if err != nil {
		h.fail(c, log, "index.html", &page.Error, &page, err)
		return
	}

	font := h.Fonts.Resolve(c.Request.Context(), lang)
	rendered, err := h.Renderer.Render(summary, font, h.outputPath(sessionID, jobID))
	if err != nil {
		h.fail(c, log, "index.html", &page.Error, &page, err)
		return
	}

	h.Store.Add(newJob(jobID, sessionID, models.KindSummary, filename, lang, summary, rendered))
	log.WithField("pages", rendered.Pages).Info("notes ready")

	page.Summary = summary
	page.Language = lang
	page.PDFReady = true
	page.JobID = jobID
	c.HTML(http.StatusOK, "index.html", page)
}

func newJob(id, sessionID string, kind models.JobKind, filename string, lang notes.Language, text string, r *notes.Rendered) *models.Job {
	job := &models.Job{
		ID:         id,
		SessionID:  sessionID,
		Kind:       kind,
		SourceFile: filename,
		Language:   string(lang),
		Text:       text,
		OutputPath: r.Path,
		Pages:      r.Pages,
		FontOrigin: string(r.Font.Origin),
		CreatedAt:  time.Now(),
	}
	if r.Font.Usable() {
		job.Font = r.Family
	}
	return job
}

// fail shows input errors on the page itself and everything else as a
// generic 500 page.
func (h *Handler) fail(c *gin.Context, log logrus.FieldLogger, tmpl string, msg *string, page any, err error) {
	if ie, ok := notes.IsInputError(err); ok {
		log.WithError(err).Info("rejected upload")
		*msg = ie.Msg
		c.HTML(http.StatusOK, tmpl, page)
		return
	}
	if notes.IsUpstreamError(err) {
		log.WithError(err).Error("generation request failed")
	} else {
		log.WithError(err).Error("request failed")
	}
	h.errorPage(c, http.StatusInternalServerError, "Something went wrong while processing your document. Please try again.")
}
