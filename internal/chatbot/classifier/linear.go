package classifier

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model maps a feature vector to one discrete category id.
type Model interface {
	Predict(x SparseVector) (int, error)
	Classes() []int
}

// LinearModel is a one-vs-rest linear classifier: the predicted class is the
// argmax of coef·x + intercept. A single coefficient row is the binary case.
type LinearModel struct {
	classes   []int
	coef      *mat.Dense
	intercept []float64
	features  int
}

func NewLinearModel(a ModelArtifact) (*LinearModel, error) {
	if len(a.Classes) < 2 {
		return nil, fmt.Errorf("%w: need at least two classes, got %d", ErrInvalidArtifact, len(a.Classes))
	}

	rows := len(a.Classes)
	if len(a.Classes) == 2 && len(a.Coef) == 1 {
		rows = 1
	}
	if len(a.Coef) != rows || len(a.Intercept) != rows {
		return nil, fmt.Errorf("%w: %d classes but %d coefficient rows and %d intercepts",
			ErrInvalidArtifact, len(a.Classes), len(a.Coef), len(a.Intercept))
	}

	features := len(a.Coef[0])
	if features == 0 {
		return nil, fmt.Errorf("%w: empty coefficient rows", ErrInvalidArtifact)
	}
	flat := make([]float64, 0, rows*features)
	for i, row := range a.Coef {
		if len(row) != features {
			return nil, fmt.Errorf("%w: coefficient row %d has %d features, want %d",
				ErrInvalidArtifact, i, len(row), features)
		}
		flat = append(flat, row...)
	}

	return &LinearModel{
		classes:   a.Classes,
		coef:      mat.NewDense(rows, features, flat),
		intercept: append([]float64(nil), a.Intercept...),
		features:  features,
	}, nil
}

func (m *LinearModel) Classes() []int { return m.classes }

func (m *LinearModel) Features() int { return m.features }

func (m *LinearModel) Predict(x SparseVector) (int, error) {
	scores, err := m.Scores(x)
	if err != nil {
		return 0, err
	}

	if scores.Len() == 1 {
		if scores.AtVec(0) > 0 {
			return m.classes[1], nil
		}
		return m.classes[0], nil
	}
	// MaxIdx returns the first maximum, so ties go to the earlier class.
	return m.classes[floats.MaxIdx(scores.RawVector().Data)], nil
}

// Scores returns coef·x + intercept, one entry per coefficient row.
func (m *LinearModel) Scores(x SparseVector) (*mat.VecDense, error) {
	// Fixed summation order keeps scores, and therefore ties, reproducible.
	indices := make([]int, 0, len(x))
	for idx := range x {
		if idx < 0 || idx >= m.features {
			return nil, fmt.Errorf("%w: feature %d outside model width %d", ErrDimensionMismatch, idx, m.features)
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	scores := mat.NewVecDense(len(m.intercept), append([]float64(nil), m.intercept...))
	for _, idx := range indices {
		scores.AddScaledVec(scores, x[idx], m.coef.ColView(idx))
	}
	return scores, nil
}
