package models

import "time"

// JobKind says which flow produced a job.
type JobKind string

const (
	KindSummary     JobKind = "summary"
	KindTranslation JobKind = "translation"
)

// Job is one finished summarize or translate request.
type Job struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"-"`
	Kind       JobKind   `json:"kind"`
	SourceFile string    `json:"sourceFile"`
	Language   string    `json:"language"` // detected language or translation target
	Text       string    `json:"text"`
	OutputPath string    `json:"-"`
	Pages      int       `json:"pages"`
	Font       string    `json:"font"`       // font file, empty for built-in
	FontOrigin string    `json:"fontOrigin"` // cached, downloaded, fallback, none
	CreatedAt  time.Time `json:"createdAt"`
}

// DownloadName is the attachment filename offered for the job's PDF.
func (j *Job) DownloadName() string {
	if j.Kind == KindTranslation {
		return "Translated_AI_Notes.pdf"
	}
	return "AI_Notes.pdf"
}
