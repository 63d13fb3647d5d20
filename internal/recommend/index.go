package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// term is one non-zero coordinate of a sparse row vector.
type term struct {
	id     int
	weight float64
}

// Index is the term-weighted vector space of one catalog snapshot together
// with its full pairwise cosine similarity matrix. It is immutable once
// built and safe for concurrent readers.
type Index struct {
	n       int
	vectors [][]term
	sim     []float64
}

// BuildIndex vectorizes blobs with smoothed TF-IDF and computes the N x N
// similarity matrix. Rows keep the order of blobs.
func BuildIndex(blobs []string) *Index {
	n := len(blobs)
	vocab := make(map[string]int)
	counts := make([]map[int]int, n)
	df := make([]int, 0)

	for i, blob := range blobs {
		c := make(map[int]int)
		for _, tok := range tokenize(blob) {
			id, ok := vocab[tok]
			if !ok {
				id = len(vocab)
				vocab[tok] = id
				df = append(df, 0)
			}
			if c[id] == 0 {
				df[id]++
			}
			c[id]++
		}
		counts[i] = c
	}

	idf := make([]float64, len(df))
	for id, d := range df {
		idf[id] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	vectors := make([][]term, n)
	for i, c := range counts {
		vec := make([]term, 0, len(c))
		var norm float64
		for id, cnt := range c {
			w := float64(cnt) * idf[id]
			vec = append(vec, term{id: id, weight: w})
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range vec {
				vec[k].weight /= norm
			}
		}
		sort.Slice(vec, func(a, b int) bool { return vec[a].id < vec[b].id })
		vectors[i] = vec
	}

	idx := &Index{n: n, vectors: vectors, sim: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		if len(vectors[i]) > 0 {
			idx.sim[i*n+i] = 1
		}
		for j := i + 1; j < n; j++ {
			s := dot(vectors[i], vectors[j])
			if s > 1 {
				s = 1
			}
			idx.sim[i*n+j] = s
			idx.sim[j*n+i] = s
		}
	}
	return idx
}

// Len is the number of rows.
func (x *Index) Len() int {
	return x.n
}

// Similarity returns sim(i, j). Zero vectors are 0 against everything.
func (x *Index) Similarity(i, j int) float64 {
	return x.sim[i*x.n+j]
}

// Row returns row i of the matrix. Callers must not modify it.
func (x *Index) Row(i int) []float64 {
	return x.sim[i*x.n : (i+1)*x.n]
}

// dot of two L2-normalised sparse vectors sorted by term id.
func dot(a, b []term) float64 {
	var s float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].id == b[j].id:
			s += a[i].weight * b[j].weight
			i++
			j++
		case a[i].id < b[j].id:
			i++
		default:
			j++
		}
	}
	return s
}

// tokenize lowercases text and returns word runs of at least two runes,
// minus stop words.
func tokenize(text string) []string {
	isWord := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !isWord(r) })
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
