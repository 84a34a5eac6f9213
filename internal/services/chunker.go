package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// chunkBuffer accumulates pieces into chunks of at most max runes, seeding
// each new chunk with the tail of the previous one.
type chunkBuffer struct {
	max     int
	overlap int
	current strings.Builder
	chunks  []string
}

func (b *chunkBuffer) add(piece, sep string) {
	size := utf8.RuneCountInString(b.current.String())
	if size > 0 && size+utf8.RuneCountInString(sep)+utf8.RuneCountInString(piece) > b.max {
		b.flush()
	}
	if b.current.Len() > 0 {
		b.current.WriteString(sep)
	}
	b.current.WriteString(piece)
}

func (b *chunkBuffer) flush() {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()

	if tail := lastRunes(prev, b.overlap); tail != "" {
		b.current.WriteString(tail)
	}
}

// ChunkText implements TextChunker. Paragraphs are kept whole when they fit;
// longer ones are split on sentence boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	buf := &chunkBuffer{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			buf.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			buf.add(sentence, " ")
		}
	}

	if buf.current.Len() > 0 {
		buf.chunks = append(buf.chunks, buf.current.String())
	}

	return buf.chunks
}

func splitIntoSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
