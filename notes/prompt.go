package notes

import (
	"fmt"
	"strings"
)

const sameLanguage = "the same language as the source text"

// NotesPrompt asks for four labelled sections. An empty lang keeps the
// language of the source material.
func NotesPrompt(text string, lang Language) string {
	desc := string(lang)
	if strings.TrimSpace(desc) == "" {
		desc = sameLanguage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Convert the following study material into clear, well-structured notes in %s.\n", desc)
	b.WriteString("Structure the output exactly with these sections and a blank line between them:\n")
	b.WriteString("Title: (one line)\n")
	b.WriteString("One-line summary: (one sentence)\n")
	b.WriteString("Key Points: (bullet list, each bullet short)\n")
	b.WriteString("Explanations: (a short 1-2 sentence explanation for each key point)\n\n")
	b.WriteString("Keep language simple and concise so notes are easy to scan.\n\n")
	fmt.Fprintf(&b, "Source material:\n%s\n\n", text)
	b.WriteString("Output only the labeled sections requested above.")
	return b.String()
}

// TranslatePrompt asks for a translation that keeps headings and layout.
func TranslatePrompt(text string, target Language) string {
	return fmt.Sprintf("Translate the following text into %s. Keep formatting and headings intact.\n\nText:\n%s", target, text)
}
