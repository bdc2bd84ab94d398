package site

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/continuity/pkg/errors"
)

func (r *Renderer) renderDigest(p page) ([]byte, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(p.Title).
		PlainText(md.Italic(p.Subtitle)).LF().
		PlainTextf("%d thoughts and counting.", p.Total).LF()

	for _, e := range p.Entries {
		doc.H2(e.Label).
			PlainText(md.Code(e.When)).LF().
			PlainText(e.Content).LF()
	}

	if len(p.Entries) > 0 {
		doc.HorizontalRule()
	}
	for _, line := range p.Footer {
		doc.PlainText(md.Italic(line)).LF()
	}

	if err := doc.Build(); err != nil {
		return nil, &errors.IOError{
			Operation: "render",
			Path:      DigestFile,
			Message:   fmt.Sprintf("building markdown: %v", err),
			Err:       err,
		}
	}
	return buf.Bytes(), nil
}
