package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUploadMediaType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        MediaType
	}{
		{"pdf", "application/pdf", "cv.pdf", MediaTypePDF},
		{"pdf with params", "application/pdf; charset=binary", "cv", MediaTypePDF},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "cv.docx", MediaTypeDOCX},
		{"octet stream falls back to extension", "application/octet-stream", "CV.PDF", MediaTypePDF},
		{"missing type falls back to extension", "", "cv.docx", MediaTypeDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUploadMediaType(tt.contentType, tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUploadMediaTypeRejectsOthers(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		reported    string
	}{
		{"image/png", "photo.png", "image/png"},
		{"application/msword", "cv.doc", "application/msword"},
		{"text/plain", "cv.pdf", "text/plain"},
		{"", "notes.txt", ".txt"},
	}

	for _, tt := range tests {
		_, err := ResolveUploadMediaType(tt.contentType, tt.filename)

		var unsupported *UnsupportedMediaTypeError
		require.True(t, errors.As(err, &unsupported), "%s %s", tt.contentType, tt.filename)
		assert.Equal(t, tt.reported, unsupported.MediaType)
	}
}

func TestMediaTypeFromExtension(t *testing.T) {
	for path, want := range map[string]MediaType{
		"a/b/course.pdf": MediaTypePDF,
		"syllabus.DOCX":  MediaTypeDOCX,
		"README.md":      MediaTypeText,
		"notes.txt":      MediaTypeText,
	} {
		got, ok := MediaTypeFromExtension(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := MediaTypeFromExtension("image.png")
	assert.False(t, ok)
}

func TestExtractTextPlain(t *testing.T) {
	extractor := NewTextExtractor()

	text, err := extractor.ExtractText([]byte("  Go   Developer \t\n\n\n\nKubernetes  "), MediaTypeText)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer\n\nKubernetes", text)

	_, err = extractor.ExtractText([]byte(" \n\t "), MediaTypeText)
	assert.ErrorIs(t, err, ErrNoTextContent)
}

func TestExtractTextInvalidDocuments(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.ExtractText([]byte("not a pdf"), MediaTypePDF)
	assert.Error(t, err)

	_, err = extractor.ExtractText([]byte("not a zip"), MediaTypeDOCX)
	assert.Error(t, err)

	_, err = extractor.ExtractText([]byte("x"), MediaType("rtf"))
	var unsupported *UnsupportedMediaTypeError
	assert.True(t, errors.As(err, &unsupported))
}

func TestUnescapeXML(t *testing.T) {
	assert.Equal(t, `C++ & "Go" <3`, unescapeXML(`C++ &amp; &quot;Go&quot; &lt;3`))
}
