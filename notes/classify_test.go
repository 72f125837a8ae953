package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBlock(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  BlockKind
	}{
		{"colon heading", "Key Points:", BlockHeading},
		{"upper case", "PHOTOSYNTHESIS AND THE CALVIN CYCLE IN C3 PLANTS OF TEMPERATE REGIONS", BlockHeading},
		{"short line", "Title: Cell Biology", BlockHeading},
		{"fifteen words", "Plants use sunlight to turn water and carbon dioxide into sugar and oxygen every day", BlockBody},
		{"multi line", "Key Points:\n- chlorophyll absorbs light", BlockBody},
		{"too long with colon", strings.Repeat("a", 119) + ":", BlockBody},
		{"just under limit", strings.Repeat("b", 118) + ":", BlockHeading},
		{"devanagari short", "मुख्य बिंदु", BlockHeading},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBlock(tt.block), tt.block)
		})
	}
}

func TestClassifyBlockCountsRunesNotBytes(t *testing.T) {
	// 100 Devanagari runes are 300 bytes but still under the limit.
	block := strings.Repeat("क", 100) + ":"
	assert.Equal(t, BlockHeading, ClassifyBlock(block))
}

func TestIsUpper(t *testing.T) {
	assert.True(t, isUpper("KEY POINTS 1-3"))
	assert.False(t, isUpper("Key Points"))
	assert.False(t, isUpper("1234"))
	assert.False(t, isUpper("नमस्ते"))
}

func TestSplitParagraphs(t *testing.T) {
	text := "Title: Cells\r\n\r\nOne-line summary: cells are small.\n\n\n\n  \n\nKey Points:\n- nucleus\n- membrane\n"
	got := SplitParagraphs(text)
	assert.Equal(t, []string{
		"Title: Cells",
		"One-line summary: cells are small.",
		"Key Points:\n- nucleus\n- membrane",
	}, got)

	assert.Empty(t, SplitParagraphs("  \n\n \n"))
}
