// Package chunker splits the knowledge corpus into metadata-tagged chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// DefaultMinChunkLength is the minimum trimmed content length for a chunk
// to be kept. Shorter fragments carry no retrieval value.
const DefaultMinChunkLength = 20

// Chunker walks the corpus line by line and produces ordered chunks.
// Chunking is deterministic: identical input always yields identical
// output, including chunk IDs.
type Chunker struct {
	minLength int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMinLength sets the minimum chunk content length.
func WithMinLength(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{minLength: DefaultMinChunkLength}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Chunk splits corpus text into chunks. Top-level headings set the section,
// second-level headings set section and department, and third-level
// headings set the chunk type from the subsection keyword. Content
// accumulates until a heading or a blank line flushes it.
func (c *Chunker) Chunk(text string) []domain.Chunk {
	chunks := make([]domain.Chunk, 0)

	section := "Overview"
	department := ""
	chunkType := domain.ChunkTypeGeneral
	var buf []string
	nextID := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if len(content) <= c.minLength {
			return
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("chunk_%d", nextID),
			Content:    content,
			Section:    section,
			Department: department,
			Type:       chunkType,
		})
		nextID++
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# ") && !strings.HasPrefix(trimmed, "## "):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			department = ""
			chunkType = domain.ChunkTypeGeneral

		case strings.HasPrefix(trimmed, "## ") && !strings.HasPrefix(trimmed, "### "):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			department = section
			chunkType = domain.ChunkTypeGeneral

		case strings.HasPrefix(trimmed, "### "):
			flush()
			chunkType = subsectionType(strings.TrimPrefix(trimmed, "### "))

		case trimmed != "":
			buf = append(buf, line)

		default:
			// Blank line after content is a chunk boundary.
			flush()
		}
	}
	flush()

	return chunks
}

// subsectionType maps a third-level heading to a chunk type.
func subsectionType(heading string) domain.ChunkType {
	sub := strings.ToLower(strings.TrimSpace(heading))
	switch {
	case strings.Contains(sub, "past work"), strings.Contains(sub, "learning"):
		return domain.ChunkTypeLearning
	case strings.Contains(sub, "goal"):
		return domain.ChunkTypeGoal
	case strings.Contains(sub, "problem"):
		return domain.ChunkTypeProblem
	default:
		return domain.ChunkTypeGeneral
	}
}
