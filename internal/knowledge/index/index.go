// Package index implements the lexical TF-IDF vector index used for
// knowledge retrieval. The index is derived state: it is built in full
// from a chunk set and never updated incrementally. Any corpus change
// requires a rebuild, which keeps scoring trivially consistent for the
// small corpora this system works with.
package index

import (
	"math"
	"sort"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// stopWords are dropped during tokenisation.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {},
}

// VectorDocument pairs a chunk with its TF-IDF representation.
// Owned exclusively by the index and never mutated in place.
type VectorDocument struct {
	Chunk       domain.Chunk
	TermWeights map[string]float64
	Magnitude   float64
}

// Index holds TF-IDF vectors for a chunk set plus the corpus-wide IDF table.
type Index struct {
	docs []VectorDocument
	idf  map[string]float64
}

// Tokenize normalises text into index terms: lowercase, non-word
// characters replaced by spaces, tokens of length <= 2 and stopwords
// dropped.
func Tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)

	fields := strings.Fields(mapped)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Build creates an index over the given chunks. IDF is computed once over
// the whole corpus as ln(totalChunks / chunksContainingTerm).
func Build(chunks []domain.Chunk) *Index {
	allTokens := make([][]string, len(chunks))
	for i, chunk := range chunks {
		allTokens[i] = Tokenize(chunk.Content)
	}

	idf := inverseDocumentFrequency(allTokens)

	docs := make([]VectorDocument, len(chunks))
	for i, chunk := range chunks {
		weights := weigh(termFrequency(allTokens[i]), idf)
		docs[i] = VectorDocument{
			Chunk:       chunk,
			TermWeights: weights,
			Magnitude:   magnitude(weights),
		}
	}

	return &Index{docs: docs, idf: idf}
}

// Search scores candidates against the query and returns chunks ordered by
// descending cosine similarity. Candidates are filtered by the optional
// department (case-insensitive substring) and type (exact) before scoring;
// results below the threshold are dropped and the list is truncated to the
// limit. Ties keep original chunk order.
func (ix *Index) Search(query string, opts domain.SearchOptions) []domain.Chunk {
	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = domain.DefaultSearchThreshold
	}

	candidates := make([]VectorDocument, 0, len(ix.docs))
	for _, doc := range ix.docs {
		if opts.Department != "" &&
			!strings.Contains(strings.ToLower(doc.Chunk.Department), strings.ToLower(opts.Department)) {
			continue
		}
		if opts.Type != "" && doc.Chunk.Type != opts.Type {
			continue
		}
		candidates = append(candidates, doc)
	}

	queryWeights := weigh(termFrequency(Tokenize(query)), ix.idf)
	queryMagnitude := magnitude(queryWeights)

	type scored struct {
		chunk      domain.Chunk
		similarity float64
	}
	results := make([]scored, 0, len(candidates))
	for _, doc := range candidates {
		results = append(results, scored{
			chunk:      doc.Chunk,
			similarity: cosine(queryWeights, queryMagnitude, doc.TermWeights, doc.Magnitude),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	out := make([]domain.Chunk, 0, limit)
	for _, r := range results {
		if r.similarity < threshold {
			continue
		}
		out = append(out, r.chunk)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Stats reports the size of the built index.
func (ix *Index) Stats() domain.IndexStats {
	return domain.IndexStats{
		TotalDocuments: len(ix.docs),
		VocabularySize: len(ix.idf),
	}
}

// termFrequency computes raw counts normalised by total token count.
func termFrequency(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	if len(tokens) == 0 {
		return tf
	}
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for term, count := range tf {
		tf[term] = count / total
	}
	return tf
}

// inverseDocumentFrequency computes ln(N/df) per term over all documents.
func inverseDocumentFrequency(documents [][]string) map[string]float64 {
	docFrequency := make(map[string]float64)
	for _, tokens := range documents {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			docFrequency[tok]++
		}
	}

	idf := make(map[string]float64, len(docFrequency))
	total := float64(len(documents))
	for term, freq := range docFrequency {
		idf[term] = math.Log(total / freq)
	}
	return idf
}

// weigh multiplies term frequencies by IDF. Terms unseen in the corpus
// contribute zero weight.
func weigh(tf, idf map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(tf))
	for term, tfValue := range tf {
		weights[term] = tfValue * idf[term]
	}
	return weights
}

// magnitude is the Euclidean norm of a weight vector.
func magnitude(weights map[string]float64) float64 {
	var sumSquares float64
	for _, w := range weights {
		sumSquares += w * w
	}
	return math.Sqrt(sumSquares)
}

// cosine is the normalised dot product of two weight vectors. It is
// defined as zero when either magnitude is zero.
func cosine(vec1 map[string]float64, mag1 float64, vec2 map[string]float64, mag2 float64) float64 {
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	var dot float64
	for term, w1 := range vec1 {
		dot += w1 * vec2[term]
	}
	return dot / (mag1 * mag2)
}
