package document

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Local extracts text in-process: PDF via ledongthuc/pdf, DOCX via
// nguyenthenguyen/docx, anything else detected as text is passed through.
type Local struct{}

// NewLocal returns an in-process extractor.
func NewLocal() *Local {
	return &Local{}
}

// Extract implements Extractor.
func (l *Local) Extract(ctx context.Context, filename string, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	format, err := DetectFormat(filename, data)
	if err != nil {
		return Document{}, err
	}

	var (
		text string
		info types.DocumentInfo
	)
	switch format {
	case FormatPDF:
		text, info, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		text = string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	}
	if err != nil {
		return Document{}, errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("failed to extract text from %s document", format), err).
			WithContext("filename", filename)
	}

	return finish(filename, format, text, info)
}

// extractPDF reads every page's plain text, one page per line block, plus the
// document information dictionary.
func extractPDF(data []byte) (text string, info types.DocumentInfo, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", info, fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", info, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sb.WriteString(strings.TrimSpace(pageText))
		sb.WriteString("\n")
	}

	meta := reader.Trailer().Key("Info")
	info = types.DocumentInfo{
		Pages:    pages,
		Title:    meta.Key("Title").Text(),
		Author:   meta.Key("Author").Text(),
		Subject:  meta.Key("Subject").Text(),
		Creator:  meta.Key("Creator").Text(),
		Producer: meta.Key("Producer").Text(),
	}
	return strings.TrimSpace(sb.String()), info, nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxText(doc.Editable().GetContent())
}

// docxText flattens WordprocessingML into text: one line per paragraph, with
// tabs and breaks kept.
func docxText(content string) (string, error) {
	var sb strings.Builder
	dec := xml.NewDecoder(strings.NewReader(content))
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("invalid document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
