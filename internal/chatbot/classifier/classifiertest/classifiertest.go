// Package classifiertest provides a tiny fitted model and a programmable stub
// for tests of the prediction core and its front ends.
package classifiertest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"banking-chatbot/internal/chatbot/classifier"
)

// Category ids emitted by the fixture model.
const (
	CardArrival    = 11
	CardSwallowed  = 18
	ExchangeRate   = 32
	TransferTiming = 67
	Unnamed        = 99
)

// Vectorizer returns a ten-term fitted vectorizer.
func Vectorizer() classifier.VectorizerArtifact {
	return classifier.VectorizerArtifact{
		Vocabulary: map[string]int{
			"card": 0, "arrival": 1, "transfer": 2, "money": 3, "exchange": 4,
			"rate": 5, "swallowed": 6, "problem": 7, "report": 8, "mystery": 9,
		},
		IDF:        []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		NgramRange: []int{1, 1},
		Norm:       "l2",
	}
}

// Model returns a linear model over Vectorizer's features. Text with no known
// terms falls to CardArrival through its intercept.
func Model() classifier.ModelArtifact {
	return classifier.ModelArtifact{
		Classes: []int{CardArrival, CardSwallowed, ExchangeRate, TransferTiming, Unnamed},
		Coef: [][]float64{
			//  card arrival transfer money exchange rate swallowed problem report mystery
			{1, 2, 0, 0, 0, 0, 0, 1, 1, 0},
			{1, 0, 0, 0, 0, 0, 3, 0, 0, 0},
			{0, 0, 0, 0, 2, 2, 0, 0, 0, 0},
			{0, 0, 2, 1.5, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 3},
		},
		Intercept: []float64{0.1, 0, 0, 0, 0},
	}
}

// Mappings names every fixture class except Unnamed.
func Mappings() classifier.MappingsArtifact {
	return classifier.MappingsArtifact{
		CategoryMapping: map[string]string{
			"11": "card_arrival",
			"18": "card_swallowed",
			"32": "exchange_rate",
			"67": "transfer_timing",
		},
	}
}

// WriteArtifacts writes the fixture artifacts into dir.
func WriteArtifacts(t testing.TB, dir string) classifier.Paths {
	t.Helper()
	paths := classifier.Paths{
		Vectorizer: filepath.Join(dir, "vectorizer_test.json"),
		Model:      filepath.Join(dir, "model_test.json"),
		Mappings:   filepath.Join(dir, "mappings_test.json"),
	}
	writeJSON(t, paths.Vectorizer, Vectorizer())
	writeJSON(t, paths.Model, Model())
	writeJSON(t, paths.Mappings, Mappings())
	return paths
}

// NewAdapter loads the fixture artifacts through the real loader.
func NewAdapter(t testing.TB) *classifier.Adapter {
	t.Helper()
	a, err := classifier.Load(WriteArtifacts(t, t.TempDir()), nil)
	if err != nil {
		t.Fatalf("load fixture artifacts: %v", err)
	}
	return a
}

func writeJSON(t testing.TB, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Stub is a programmable classifier. Texts not in ByText yield Default.
type Stub struct {
	ByText  map[string]int
	Default int
	Names   map[int]string
	Err     error
}

func (s *Stub) Classify(normalized string) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	if id, ok := s.ByText[normalized]; ok {
		return id, nil
	}
	return s.Default, nil
}

func (s *Stub) CategoryName(id int) (string, bool) {
	name, ok := s.Names[id]
	return name, ok
}
