package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notes-web/middleware"
	"notes-web/notes"
	"notes-web/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Handler serves the notes and translator pages. Each POST runs extraction,
// generation and rendering synchronously and stores the result under the
// caller's session.
type Handler struct {
	Extractor notes.Extractor
	Notes     *notes.Service
	Fonts     notes.FontSource
	Renderer  *notes.Renderer
	Store     *store.Store
	UploadDir string
	OutputDir string
	Log       logrus.FieldLogger
}

// Register installs templates, the session middleware and every route.
func (h *Handler) Register(r *gin.Engine, sessions *middleware.SessionManager) {
	r.SetHTMLTemplate(Templates())
	r.Use(middleware.SessionMiddleware(sessions))

	r.GET("/", h.IndexPage)
	r.POST("/", h.SummarizeHandler)
	r.GET("/download", h.DownloadSummaryHandler)
	r.GET("/download/:jobId", h.DownloadJobHandler)
	r.GET("/translator", h.TranslatorPage)
	r.POST("/translator", h.TranslateHandler)
	r.GET("/download_translated", h.DownloadTranslatedHandler)
	r.GET("/about", h.AboutPage)
	r.GET("/api/jobs", h.JobsHandler)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		h.errorPage(c, http.StatusNotFound, "Page not found.")
	})
}

// AboutPage is static.
func (h *Handler) AboutPage(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{"Title": "About"})
}

// JobsHandler lists the caller's finished jobs as JSON.
func (h *Handler) JobsHandler(c *gin.Context) {
	jobs := h.Store.List(middleware.GetSessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *Handler) errorPage(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": msg,
	})
}
