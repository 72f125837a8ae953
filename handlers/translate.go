package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notes-web/middleware"
	"notes-web/models"
	"notes-web/notes"
)

type translatorPage struct {
	Title           string
	Translated      string
	Error           string
	TranslatedReady bool
	TargetLanguage  notes.Language
	JobID           string
	Languages       []notes.Language
}

// TranslatorPage shows the translation form.
func (h *Handler) TranslatorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "translator.html", translatorPage{
		Title:          "Translator",
		TargetLanguage: notes.English,
		Languages:      notes.Languages,
	})
}

// TranslateHandler translates an uploaded PDF into target_language
// (English when empty) and renders the translation with a font for that
// language.
func (h *Handler) TranslateHandler(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	jobID := uuid.New().String()

	target, known := notes.ParseLanguage(c.PostForm("target_language"))
	if target == "" {
		target, known = notes.English, true
	}
	log := h.Log.WithFields(logrus.Fields{"session": shortID(sessionID), "job": jobID, "target": target})
	if !known {
		log.Warn("target language has no dedicated font, English font will be used")
	}

	page := translatorPage{Title: "Translator", TargetLanguage: target, Languages: notes.Languages}

	text, filename, err := h.extractUpload(c, sessionID, jobID)
	if err != nil {
		h.fail(c, log, "translator.html", &page.Error, &page, err)
		return
	}
	if text == "" {
		page.Error = msgNoText
		c.HTML(http.StatusOK, "translator.html", page)
		return
	}

	log.WithField("chars", len(text)).Info("translating upload")
	translated, err := h.Notes.Translate(c.Request.Context(), text, target)
	if err != nil {
		h.fail(c, log, "translator.html", &page.Error, &page, err)
		return
	}

	font := h.Fonts.Resolve(c.Request.Context(), target)
	rendered, err := h.Renderer.Render(translated, font, h.outputPath(sessionID, jobID))
	if err != nil {
		h.fail(c, log, "translator.html", &page.Error, &page, err)
		return
	}

	h.Store.Add(newJob(jobID, sessionID, models.KindTranslation, filename, target, translated, rendered))
	log.WithField("pages", rendered.Pages).Info("translation ready")

	page.Translated = translated
	page.TranslatedReady = true
	page.JobID = jobID
	c.HTML(http.StatusOK, "translator.html", page)
}
