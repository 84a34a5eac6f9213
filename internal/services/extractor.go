package services

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type MediaType string

const (
	MediaTypePDF  MediaType = "pdf"
	MediaTypeDOCX MediaType = "docx"
	MediaTypeText MediaType = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrNoTextContent = errors.New("no text content found in document")

var (
	xmlParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag          = regexp.MustCompile(`<[^>]+>`)
	inlineSpace     = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n\s*\n+`)
)

// ResolveUploadMediaType maps an upload's declared content type onto a
// supported résumé format. The filename extension is consulted only when the
// client sent no specific type.
func ResolveUploadMediaType(contentType, filename string) (MediaType, error) {
	declared := strings.TrimSpace(contentType)
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		declared = parsed
	}

	switch strings.ToLower(declared) {
	case mimePDF:
		return MediaTypePDF, nil
	case mimeDOCX:
		return MediaTypeDOCX, nil
	case "", "application/octet-stream":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".pdf":
			return MediaTypePDF, nil
		case ".docx":
			return MediaTypeDOCX, nil
		}
	}

	if declared == "" {
		declared = filepath.Ext(filename)
	}
	return "", &UnsupportedMediaTypeError{MediaType: declared}
}

// MediaTypeFromExtension is used for catalog files on disk.
func MediaTypeFromExtension(path string) (MediaType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MediaTypePDF, true
	case ".docx":
		return MediaTypeDOCX, true
	case ".txt", ".md":
		return MediaTypeText, true
	}
	return "", false
}

type TextExtractor interface {
	ExtractText(data []byte, mediaType MediaType) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// ExtractText implements TextExtractor.
func (t *textExtractor) ExtractText(data []byte, mediaType MediaType) (string, error) {
	var (
		text string
		err  error
	)

	switch mediaType {
	case MediaTypePDF:
		text, err = extractPDFText(data)
	case MediaTypeDOCX:
		text, err = extractDocxText(data)
	case MediaTypeText:
		text = string(data)
	default:
		return "", &UnsupportedMediaTypeError{MediaType: string(mediaType)}
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoTextContent
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = xmlParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")

	return unescapeXML(content), nil
}

var xmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}

// CleanText collapses runs of inline whitespace and blank lines and trims
// each line.
func CleanText(text string) string {
	text = inlineSpace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
