// Package fulltext implements a BM25-ranked inverted index over the
// configured textual fields of a document.
package fulltext

import (
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/graphgo/core"
	"github.com/hupe1980/graphgo/index"
)

const (
	k1 = 1.2
	b  = 0.75
)

type posting struct {
	local core.LocalID
	count int
}

// Index is a simple in-memory BM25 index.
type Index struct {
	mu          sync.RWMutex
	stopWords   map[string]struct{}
	inverted    map[string][]posting
	docLengths  map[core.LocalID]int
	totalLength int64
	docCount    int
}

// New creates a new Index. stopWords may be nil.
func New(stopWords []string) *Index {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Index{
		stopWords:  stop,
		inverted:   make(map[string][]posting),
		docLengths: make(map[core.LocalID]int),
	}
}

var _ index.Index = (*Index)(nil)

// tokenize lower-cases, splits on non-letter non-digit runes and drops
// stop-words.
func (idx *Index) tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(idx.stopWords) == 0 {
		return raw
	}
	tokens := raw[:0]
	for _, t := range raw {
		if _, ok := idx.stopWords[t]; !ok {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Upsert indexes a document's text, replacing any previous entry.
func (idx *Index) Upsert(local core.LocalID, text string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.docLengths[local]; ok {
		idx.removeLocked(local)
	}

	tokens := idx.tokenize(text)
	length := len(tokens)

	idx.docLengths[local] = length
	idx.totalLength += int64(length)
	idx.docCount++

	// Count term frequencies
	tf := make(map[string]int)
	for _, t := range tokens {
		tf[t]++
	}

	for t, count := range tf {
		idx.inverted[t] = append(idx.inverted[t], posting{local: local, count: count})
	}
}

// Remove drops the document from the index.
func (idx *Index) Remove(local core.LocalID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(local)
}

func (idx *Index) removeLocked(local core.LocalID) {
	length, ok := idx.docLengths[local]
	if !ok {
		return
	}

	// O(terms * postings), acceptable for an embedded corpus.
	for t := range idx.inverted {
		postings := idx.inverted[t]
		for i, p := range postings {
			if p.local == local {
				idx.inverted[t] = append(postings[:i], postings[i+1:]...)
				break
			}
		}
		if len(idx.inverted[t]) == 0 {
			delete(idx.inverted, t)
		}
	}

	delete(idx.docLengths, local)
	idx.totalLength -= int64(length)
	idx.docCount--
}

// Search scores every document containing at least one query term. Scores
// are BM25: monotonic in term frequency, inversely related to document
// frequency.
func (idx *Index) Search(text string) map[core.LocalID]float32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	tokens := idx.tokenize(text)
	scores := make(map[core.LocalID]float32)

	if idx.docCount == 0 {
		return scores
	}

	avgDL := float64(idx.totalLength) / float64(idx.docCount)

	for _, t := range tokens {
		postings, ok := idx.inverted[t]
		if !ok {
			continue
		}

		idf := idx.computeIDF(len(postings))

		for _, p := range postings {
			tf := float64(p.count)
			docLen := float64(idx.docLengths[p.local])

			// BM25 formula
			num := tf * (k1 + 1)
			denom := tf + k1*(1-b+b*(docLen/avgDL))
			score := idf * (num / denom)

			scores[p.local] += float32(score)
		}
	}

	return scores
}

func (idx *Index) computeIDF(df int) float64 {
	// IDF = log(1 + (N - n + 0.5) / (n + 0.5))
	N := float64(idx.docCount)
	n := float64(df)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.docCount
}
