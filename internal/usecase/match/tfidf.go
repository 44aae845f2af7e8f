package match

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// sparseVec holds the nonzero entries of a TF-IDF vector, ordered by feature index.
type sparseVec struct {
	idx []int
	val []float64
}

// dot returns the inner product of two sparse vectors.
func (a sparseVec) dot(b sparseVec) float64 {
	var sum float64
	for i, j := 0, 0; i < len(a.idx) && j < len(b.idx); {
		switch {
		case a.idx[i] < b.idx[j]:
			i++
		case a.idx[i] > b.idx[j]:
			j++
		default:
			sum += a.val[i] * b.val[j]
			i++
			j++
		}
	}
	return sum
}

// byIndex sorts a sparseVec's entries by feature index.
type byIndex sparseVec

func (v byIndex) Len() int           { return len(v.idx) }
func (v byIndex) Less(a, b int) bool { return v.idx[a] < v.idx[b] }
func (v byIndex) Swap(a, b int) {
	v.idx[a], v.idx[b] = v.idx[b], v.idx[a]
	v.val[a], v.val[b] = v.val[b], v.val[a]
}

// tfidfModel holds L2-normalized TF-IDF vectors for a small in-memory corpus.
type tfidfModel struct {
	vectors []sparseVec
}

// fitTransform fits smoothed IDF weights on docs and returns their normalized vectors:
// idf(t) = ln((1+N)/(1+df(t))) + 1, weight = raw count * idf.
// Each vector stores only the n-grams its document contains.
func fitTransform(docs []string, minN, maxN int) tfidfModel {
	counts := make([]map[string]int, len(docs))
	index := make(map[string]int)
	var df []float64
	for i, d := range docs {
		counts[i] = charNGrams(d, minN, maxN)
		for g := range counts[i] {
			j, ok := index[g]
			if !ok {
				j = len(df)
				index[g] = j
				df = append(df, 0)
			}
			df[j]++
		}
	}

	n := float64(len(docs))
	m := tfidfModel{vectors: make([]sparseVec, len(docs))}
	for i, c := range counts {
		v := sparseVec{idx: make([]int, 0, len(c)), val: make([]float64, 0, len(c))}
		for g, tf := range c {
			j := index[g]
			v.idx = append(v.idx, j)
			v.val = append(v.val, float64(tf)*(math.Log((1+n)/(1+df[j]))+1))
		}
		sort.Sort(byIndex(v))
		if norm := floats.Norm(v.val, 2); norm > 0 {
			floats.Scale(1/norm, v.val)
		}
		m.vectors[i] = v
	}
	return m
}

// cosine returns the similarity of documents i and j. Vectors are unit length, so the
// dot product is the cosine.
func (m tfidfModel) cosine(i, j int) float64 {
	return m.vectors[i].dot(m.vectors[j])
}
