package notes

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlockKind is how a paragraph is typeset.
type BlockKind int

const (
	BlockBody BlockKind = iota
	BlockHeading
)

func (k BlockKind) String() string {
	if k == BlockHeading {
		return "heading"
	}
	return "body"
}

// Classifier decides how a trimmed paragraph is rendered.
type Classifier func(block string) BlockKind

// maxHeadingRunes and maxHeadingWords bound what ClassifyBlock calls a heading.
const (
	maxHeadingRunes = 120
	maxHeadingWords = 8
)

// ClassifyBlock is the default shape-only rule: a single line shorter than
// 120 characters that ends with a colon, is all upper-case, or has at most
// eight words. Short sentences are therefore headings too.
func ClassifyBlock(block string) BlockKind {
	if strings.Contains(block, "\n") || utf8.RuneCountInString(block) >= maxHeadingRunes {
		return BlockBody
	}
	if strings.HasSuffix(block, ":") || isUpper(block) || len(strings.Fields(block)) <= maxHeadingWords {
		return BlockHeading
	}
	return BlockBody
}

// isUpper is true when s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// SplitParagraphs splits on blank lines and drops empty blocks.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
