package domain

// ChunkType classifies what kind of knowledge a chunk carries.
type ChunkType string

// Chunk types, assigned by the chunker from the corpus subsection a chunk
// was found under.
const (
	ChunkTypeGoal     ChunkType = "goal"
	ChunkTypeProblem  ChunkType = "problem"
	ChunkTypeLearning ChunkType = "learning"
	ChunkTypeGeneral  ChunkType = "general"
)

// Chunk represents a searchable segment of the knowledge corpus.
// Chunks are immutable once produced and regenerated wholesale whenever
// the corpus changes.
type Chunk struct {
	// ID is ordinal within one chunking pass ("chunk_0", "chunk_1", ...).
	// It is not stable across passes if the corpus structure changes.
	ID string

	// Content is the chunk text.
	Content string

	// Section is the heading the content was found under.
	Section string

	// Department is the owning department block, empty for overview content.
	Department string

	// Type is the knowledge classification.
	Type ChunkType
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Department filters candidates by case-insensitive substring match.
	Department string

	// Type filters candidates by exact chunk type match.
	Type ChunkType

	// Limit is the maximum number of results (default 5).
	Limit int

	// Threshold is the minimum cosine similarity (default 0.1).
	Threshold float64
}

// Default retrieval parameters.
const (
	DefaultSearchLimit     = 5
	DefaultSearchThreshold = 0.1
)

// IndexStats describes the state of a built vector index.
type IndexStats struct {
	// TotalDocuments is the number of indexed chunks.
	TotalDocuments int

	// VocabularySize is the number of distinct terms in the IDF table.
	VocabularySize int
}
