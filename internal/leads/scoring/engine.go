// Package scoring turns an encoded lead into a conversion probability using a
// trained classifier artifact.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/platform/apperr"
)

const (
	opScore      = "scoring.Score"
	opToFeatures = "scoring.ToFeatures"

	// positiveClass is the label of a converted lead.
	positiveClass = 1

	// Averaged tree outputs can drift past 1 by rounding error.
	probabilityTolerance = 1e-9
)

// Classifier is a trained probabilistic model.
type Classifier interface {
	// FeatureNames returns the ordered inputs the model was trained on.
	FeatureNames() []string
	// Classes returns the class labels in the order PredictProba reports them.
	Classes() []int
	// PredictProba returns one probability per class for an ordered feature vector.
	PredictProba(x []float64) ([]float64, error)
}

// Engine scores feature maps against one immutable classifier. It holds no
// mutable state and is shared by every request.
type Engine struct {
	model    Classifier
	features []string
	index    map[string]int
	positive int
}

// NewEngine wraps model. The model must report class 1.
func NewEngine(model Classifier) (*Engine, error) {
	features := model.FeatureNames()
	index := make(map[string]int, len(features))
	for i, name := range features {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("model declares feature %q twice", name)
		}
		index[name] = i
	}

	positive := -1
	for i, class := range model.Classes() {
		if class == positiveClass {
			positive = i
		}
	}
	if positive < 0 {
		return nil, fmt.Errorf("model classes %v do not include the positive class %d", model.Classes(), positiveClass)
	}

	return &Engine{
		model:    model,
		features: append([]string(nil), features...),
		index:    index,
		positive: positive,
	}, nil
}

// FeatureNames returns a copy of the model's ordered feature names.
func (e *Engine) FeatureNames() []string {
	return append([]string(nil), e.features...)
}

// Score returns the probability of the positive class. The key set of
// features must equal the model's feature set exactly.
func (e *Engine) Score(features map[string]float64) (float64, error) {
	missing, unexpected := e.diff(features)
	if len(missing) > 0 || len(unexpected) > 0 {
		return 0, apperr.FeatureMismatch(mismatchMessage(missing, unexpected)).
			WithOp(opScore).
			WithDetails(map[string][]string{"missing": missing, "unexpected": unexpected})
	}

	x := make([]float64, len(e.features))
	for name, value := range features {
		x[e.index[name]] = value
	}

	proba, err := e.model.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if len(proba) != len(e.model.Classes()) {
		return 0, apperr.Internal(fmt.Sprintf("model returned %d probabilities for %d classes", len(proba), len(e.model.Classes()))).WithOp(opScore)
	}

	p := proba[e.positive]
	if math.IsNaN(p) || p < -probabilityTolerance || p > 1+probabilityTolerance {
		return 0, apperr.Internal(fmt.Sprintf("model returned probability %v outside [0, 1]", p)).WithOp(opScore)
	}
	return math.Min(1, math.Max(0, p)), nil
}

func (e *Engine) diff(features map[string]float64) (missing, unexpected []string) {
	for _, name := range e.features {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range features {
		if _, ok := e.index[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	sort.Strings(unexpected)
	return missing, unexpected
}

func mismatchMessage(missing, unexpected []string) string {
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "missing features: "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected features: "+strings.Join(unexpected, ", "))
	}
	return "feature set does not match the model (" + strings.Join(parts, "; ") + ")"
}

// ToFeatures coerces an encoded row to floats. Missing values become NaN;
// numeric strings are parsed. Anything else cannot reach the model.
func ToFeatures(row domain.Row) (map[string]float64, error) {
	out := make(map[string]float64, len(row))
	for name, value := range row {
		f, err := toFloat(value)
		if err != nil {
			return nil, apperr.TypeConversion(fmt.Sprintf("feature %q: %v", name, err)).
				WithOp(opToFeatures).
				WithDetails(map[string]string{"field": name})
		}
		out[name] = f
	}
	return out, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert %q to float", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value of type %T", v)
	}
}
