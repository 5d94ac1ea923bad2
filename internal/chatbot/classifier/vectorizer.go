package classifier

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// SparseVector maps feature index to weight.
type SparseVector map[int]float64

// Vectorizer turns normalized text into a fixed-width feature vector.
type Vectorizer interface {
	Transform(text string) (SparseVector, error)
	Features() int
}

// Two or more word characters, the usual bag-of-words token pattern.
var defaultTokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TFIDFVectorizer is a fitted term-frequency / inverse-document-frequency
// transform. It is read-only after load.
type TFIDFVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	minN, maxN  int
	sublinearTF bool
	norm        string
	lowercase   bool
}

// NewTFIDFVectorizer validates the fitted parameters and builds a vectorizer.
func NewTFIDFVectorizer(a VectorizerArtifact) (*TFIDFVectorizer, error) {
	minN, maxN := 1, 1
	if len(a.NgramRange) == 2 {
		minN, maxN = a.NgramRange[0], a.NgramRange[1]
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("%w: ngram_range [%d,%d]", ErrInvalidArtifact, minN, maxN)
	}

	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.IDF) {
			return nil, fmt.Errorf("%w: term %q has index %d outside idf of length %d",
				ErrInvalidArtifact, term, idx, len(a.IDF))
		}
	}

	norm := a.Norm
	if norm == "" {
		norm = "l2"
	}
	lowercase := true
	if a.Lowercase != nil {
		lowercase = *a.Lowercase
	}

	return &TFIDFVectorizer{
		vocabulary:  a.Vocabulary,
		idf:         a.IDF,
		minN:        minN,
		maxN:        maxN,
		sublinearTF: a.SublinearTF,
		norm:        norm,
		lowercase:   lowercase,
	}, nil
}

func (v *TFIDFVectorizer) Features() int { return len(v.idf) }

func (v *TFIDFVectorizer) Transform(text string) (SparseVector, error) {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	words := defaultTokenPattern.FindAllString(text, -1)

	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			term := strings.Join(words[i:i+n], " ")
			if idx, ok := v.vocabulary[term]; ok {
				counts[idx]++
			}
		}
	}

	vec := make(SparseVector, len(counts))
	for idx, tf := range counts {
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec[idx] = tf * v.idf[idx]
	}

	switch v.norm {
	case "l2":
		normalize(vec, 2)
	case "l1":
		normalize(vec, 1)
	}
	return vec, nil
}

// normalize scales vec to unit L-norm. An all-zero vector is left as is.
func normalize(vec SparseVector, l float64) {
	indices := make([]int, 0, len(vec))
	for idx := range vec {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	weights := make([]float64, len(indices))
	for i, idx := range indices {
		weights[i] = vec[idx]
	}
	norm := floats.Norm(weights, l)
	if norm == 0 {
		return
	}
	floats.Scale(1/norm, weights)
	for i, idx := range indices {
		vec[idx] = weights[i]
	}
}
