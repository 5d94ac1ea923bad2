package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"banking-chatbot/internal/common/validation"
)

var (
	ErrInvalidArtifact   = errors.New("INVALID_ARTIFACT")
	ErrDimensionMismatch = errors.New("DIMENSION_MISMATCH")
)

// VectorizerArtifact is the serialized, fitted TF-IDF transform.
type VectorizerArtifact struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramRange  []int          `json:"ngram_range,omitempty"`
	SublinearTF bool           `json:"sublinear_tf,omitempty"`
	Norm        string         `json:"norm,omitempty"`
	Lowercase   *bool          `json:"lowercase,omitempty"`
}

// ModelArtifact is the serialized linear classifier.
type ModelArtifact struct {
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// MappingsArtifact carries the id → category name table emitted at training time.
type MappingsArtifact struct {
	CategoryMapping        map[string]string `json:"category_mapping"`
	ReverseCategoryMapping map[string]int    `json:"reverse_category_mapping,omitempty"`
}

var vectorizerSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"vocabulary", "idf"},
	"properties": map[string]interface{}{
		"vocabulary": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": map[string]interface{}{"type": "integer", "minimum": 0},
		},
		"idf": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]interface{}{"type": "number"},
		},
		"ngram_range": map[string]interface{}{
			"type":     "array",
			"minItems": 2,
			"maxItems": 2,
			"items":    map[string]interface{}{"type": "integer", "minimum": 1},
		},
		"sublinear_tf": map[string]interface{}{"type": "boolean"},
		"norm":         map[string]interface{}{"enum": []interface{}{"l1", "l2", "none"}},
		"lowercase":    map[string]interface{}{"type": "boolean"},
	},
})

var modelSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"classes", "coef", "intercept"},
	"properties": map[string]interface{}{
		"classes": map[string]interface{}{
			"type":        "array",
			"minItems":    2,
			"uniqueItems": true,
			"items":       map[string]interface{}{"type": "integer", "minimum": 0},
		},
		"coef": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]interface{}{"type": "number"},
			},
		},
		"intercept": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "number"},
		},
	},
})

var mappingsSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"category_mapping"},
	"properties": map[string]interface{}{
		"category_mapping": map[string]interface{}{
			"type":                 "object",
			"minProperties":        1,
			"patternProperties":    map[string]interface{}{"^[0-9]+$": map[string]interface{}{"type": "string", "minLength": 1}},
			"additionalProperties": false,
		},
		"reverse_category_mapping": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": map[string]interface{}{"type": "integer"},
		},
	},
})

// ReadVectorizer loads and validates a vectorizer artifact file.
func ReadVectorizer(path string) (*TFIDFVectorizer, error) {
	var a VectorizerArtifact
	if err := readArtifact(path, vectorizerSchema, &a); err != nil {
		return nil, err
	}
	return NewTFIDFVectorizer(a)
}

// ReadModel loads and validates a classifier artifact file.
func ReadModel(path string) (*LinearModel, error) {
	var a ModelArtifact
	if err := readArtifact(path, modelSchema, &a); err != nil {
		return nil, err
	}
	return NewLinearModel(a)
}

// ReadMappings loads the id → name table.
func ReadMappings(path string) (map[int]string, error) {
	var a MappingsArtifact
	if err := readArtifact(path, mappingsSchema, &a); err != nil {
		return nil, err
	}

	out := make(map[int]string, len(a.CategoryMapping))
	for k, name := range a.CategoryMapping {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: category id %q: %v", ErrInvalidArtifact, k, err)
		}
		out[id] = name
	}
	return out, nil
}

func readArtifact(path string, schema *validation.Schema, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	result, err := schema.ValidateBytes(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	if err := result.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidArtifact, path, err)
	}
	return nil
}
