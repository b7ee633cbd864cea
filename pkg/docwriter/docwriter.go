// Package docwriter renders curriculum documents as Word files for the
// print/export flows.
package docwriter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// Section is one titled block of body text. Body lines are split on
// newlines so multi-paragraph content keeps its breaks.
type Section struct {
	Title string
	Body  string
}

// Build renders a document with a heading followed by the given sections
// and returns the serialized docx bytes.
func Build(title string, sections []Section) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size("36")

	for _, section := range sections {
		if section.Title != "" {
			doc.AddParagraph().AddText(section.Title).Size("28")
		}
		for _, line := range strings.Split(section.Body, "\n") {
			doc.AddParagraph().AddText(line)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}
