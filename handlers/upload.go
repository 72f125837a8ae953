package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"notes-web/notes"
)

const (
	msgNoFile = "Please upload a file."
	msgNoText = "No readable text found in the uploaded file."
)

// extractUpload saves the "pdf" form file under the session's upload
// directory, extracts its text and deletes it again. A missing file is an
// InputError and nothing is saved or extracted.
func (h *Handler) extractUpload(c *gin.Context, sessionID, jobID string) (text, filename string, err error) {
	file, err := c.FormFile("pdf")
	if err != nil || file.Filename == "" {
		return "", "", &notes.InputError{Msg: msgNoFile, Err: err}
	}

	dir := filepath.Join(h.UploadDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(dir, jobID+".pdf")
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", "", fmt.Errorf("save upload: %w", err)
	}
	defer os.Remove(path)

	text, err = h.Extractor.ExtractText(path)
	if err != nil {
		return "", file.Filename, err
	}
	return text, file.Filename, nil
}

// outputPath is unique per job so that concurrent requests never share a file.
func (h *Handler) outputPath(sessionID, jobID string) string {
	return filepath.Join(h.OutputDir, sessionID, jobID+".pdf")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
