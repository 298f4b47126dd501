// Package chunker provides an overlapping text chunking processor.
//
// Text is split into an ordered sequence of chunks of at most chunkSize
// characters. Each chunk after the first begins overlap characters before
// the end of the previous chunk. Cuts prefer semantic boundaries: paragraph
// break, then sentence end, then word break, falling back to a hard
// character cut. Splitting is deterministic: identical input and parameters
// always produce identical chunk sequences and chunk IDs.
package chunker

import (
	"context"
	"unicode/utf8"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits extracted document text into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into chunks stamped with document
// metadata and dense ordinals. Input chunks are ignored; this processor
// creates chunks. Empty text yields zero chunks, not one empty chunk.
func (p *Processor) Process(_ context.Context, doc *domain.ExtractedDocument, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	parts := p.split(doc.Text)

	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:            domain.ChunkID(doc.File.ID, i),
			DocumentID:    doc.File.ID,
			Ordinal:       i,
			Content:       part,
			DocumentName:  doc.File.Name,
			ContentType:   doc.File.ContentType,
			DocumentMTime: doc.File.ModifiedTime,
			WebLink:       doc.File.WebLink,
			DocumentPath:  doc.File.Path,
			ContentHash:   doc.ContentHash,
			Length:        utf8.RuneCountInString(part),
		})
	}

	return chunks, nil
}

// split produces the ordered overlapping substrings.
// Sizes are measured in runes so multi-byte text is not cut mid-character.
func (p *Processor) split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	var parts []string
	start := 0
	for {
		end := start + p.chunkSize
		if end >= n {
			parts = append(parts, string(runes[start:n]))
			return parts
		}

		cut := p.boundaryCut(runes, start, end)
		parts = append(parts, string(runes[start:cut]))

		// Next chunk begins overlap characters before the previous end.
		next := cut - p.overlap
		if next <= start {
			next = cut
		}
		start = next
	}
}

// boundaryCut picks the cut position in (start, end], preferring a paragraph
// break, then a sentence end, then a word break, then a hard cut at end.
// The cut always leaves more than overlap characters in the chunk so the
// window advances.
func (p *Processor) boundaryCut(runes []rune, start, end int) int {
	min := start + p.overlap + 1

	if cut := lastParagraphBreak(runes, min, end); cut > 0 {
		return cut
	}
	if cut := lastSentenceEnd(runes, min, end); cut > 0 {
		return cut
	}
	if cut := lastWordBreak(runes, min, end); cut > 0 {
		return cut
	}
	return end
}

// lastParagraphBreak returns the position just after the last blank line in
// [min, end), or 0 if there is none.
func lastParagraphBreak(runes []rune, min, end int) int {
	for i := end - 2; i >= min-1 && i >= 0; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			cut := i + 2
			if cut >= min && cut <= end {
				return cut
			}
		}
	}
	return 0
}

// lastSentenceEnd returns the position just after the last sentence-ending
// punctuation followed by whitespace in [min, end), or 0 if there is none.
func lastSentenceEnd(runes []rune, min, end int) int {
	for i := end - 2; i >= min-1 && i >= 0; i-- {
		if isSentenceEnd(runes[i]) && isSpace(runes[i+1]) {
			cut := i + 2
			if cut >= min && cut <= end {
				return cut
			}
		}
	}
	return 0
}

// lastWordBreak returns the position just after the last whitespace in
// [min, end), or 0 if there is none.
func lastWordBreak(runes []rune, min, end int) int {
	for i := end - 1; i >= min-1 && i >= 0; i-- {
		if isSpace(runes[i]) {
			cut := i + 1
			if cut >= min && cut <= end {
				return cut
			}
		}
	}
	return 0
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
