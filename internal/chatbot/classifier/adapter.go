// Package classifier is the seam between the chatbot and its pre-trained
// vectorizer/classifier pair.
package classifier

import (
	"fmt"
	"sort"

	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/logger"
)

// IntentClassifier is what the prediction core needs from a model.
type IntentClassifier interface {
	Classify(normalized string) (int, error)
	CategoryName(id int) (string, bool)
}

// Paths locates the three versioned artifact files.
type Paths struct {
	Vectorizer string
	Model      string
	Mappings   string
}

// Adapter wraps a fitted vectorizer and model. It is immutable after
// construction and safe for concurrent use.
type Adapter struct {
	vectorizer Vectorizer
	model      Model
	categories map[int]string
	unmapped   []int
}

// NewAdapter checks that every class the model can emit has a name. Missing
// names are reported, not fatal: those ids resolve to fallbacks later.
func NewAdapter(v Vectorizer, m Model, categories map[int]string, log logger.Logger) (*Adapter, error) {
	if v == nil || m == nil {
		return nil, fmt.Errorf("%w: vectorizer and model are required", ErrInvalidArtifact)
	}
	if lm, ok := m.(*LinearModel); ok && lm.Features() != v.Features() {
		return nil, fmt.Errorf("%w: vectorizer emits %d features, model expects %d",
			ErrDimensionMismatch, v.Features(), lm.Features())
	}

	a := &Adapter{vectorizer: v, model: m, categories: categories}
	for _, c := range m.Classes() {
		if _, ok := categories[c]; !ok {
			a.unmapped = append(a.unmapped, c)
		}
	}
	sort.Ints(a.unmapped)

	if len(a.unmapped) > 0 && log != nil {
		log.Warn("classifier emits categories without names", map[string]interface{}{
			"unmapped": a.unmapped,
		})
	}
	return a, nil
}

// Load reads all artifacts once. Any failure is a MODEL_LOAD_FAILED error.
func Load(paths Paths, log logger.Logger) (*Adapter, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = logger.Component(log, "classifier")

	vec, err := ReadVectorizer(paths.Vectorizer)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(paths.Vectorizer, err)
	}
	model, err := ReadModel(paths.Model)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(paths.Model, err)
	}
	categories, err := ReadMappings(paths.Mappings)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(paths.Mappings, err)
	}

	adapter, err := NewAdapter(vec, model, categories, log)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(paths.Model, err)
	}

	log.Info("model artifacts loaded", map[string]interface{}{
		"vectorizer": paths.Vectorizer,
		"model":      paths.Model,
		"mappings":   paths.Mappings,
		"features":   vec.Features(),
		"classes":    len(model.Classes()),
		"categories": len(categories),
	})
	return adapter, nil
}

// Classify predicts the category id for already-normalized text.
func (a *Adapter) Classify(normalized string) (int, error) {
	x, err := a.vectorizer.Transform(normalized)
	if err != nil {
		return 0, fmt.Errorf("transform: %w", err)
	}
	id, err := a.model.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return id, nil
}

// CategoryName returns the training-time name for id.
func (a *Adapter) CategoryName(id int) (string, bool) {
	name, ok := a.categories[id]
	return name, ok
}

// Categories returns a copy of the id → name table.
func (a *Adapter) Categories() map[int]string {
	out := make(map[int]string, len(a.categories))
	for k, v := range a.categories {
		out[k] = v
	}
	return out
}

// Unmapped lists model classes with no category name.
func (a *Adapter) Unmapped() []int {
	return append([]int(nil), a.unmapped...)
}
