package scoring

import (
	"errors"
	"fmt"
	"math"

	"leadscore_backend/platform/apperr"
)

// Supported artifact kinds.
const (
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
)

// treeLeaf marks a node without children (scikit-learn's TREE_LEAF).
const treeLeaf = -1

const opPredict = "scoring.PredictProba"

// ModelSpec is the serialised form of a trained classifier. It is produced by
// exporting a fitted scikit-learn estimator to YAML or JSON.
type ModelSpec struct {
	Kind         string     `yaml:"kind"`
	FeatureNames []string   `yaml:"feature_names"`
	Classes      []int      `yaml:"classes"`
	Intercept    float64    `yaml:"intercept"`
	Coefficients []float64  `yaml:"coefficients"`
	Trees        []TreeSpec `yaml:"trees"`
}

// TreeSpec is one fitted decision tree in scikit-learn's flat-array layout.
// Value holds one row of per-class weights per node.
type TreeSpec struct {
	ChildrenLeft    []int       `yaml:"children_left"`
	ChildrenRight   []int       `yaml:"children_right"`
	Feature         []int       `yaml:"feature"`
	Threshold       []float64   `yaml:"threshold"`
	Value           [][]float64 `yaml:"value"`
	MissingGoToLeft []int       `yaml:"missing_go_to_left,omitempty"`
}

// Build validates spec and returns the classifier it describes.
func Build(spec ModelSpec) (Classifier, error) {
	if len(spec.FeatureNames) == 0 {
		return nil, errors.New("model declares no feature names")
	}
	classes := spec.Classes
	if len(classes) == 0 {
		classes = []int{0, 1}
	}

	switch spec.Kind {
	case KindLogisticRegression:
		return NewLogisticRegression(spec.FeatureNames, classes, spec.Intercept, spec.Coefficients)
	case KindRandomForest:
		return NewRandomForest(spec.FeatureNames, classes, spec.Trees)
	default:
		return nil, fmt.Errorf("unsupported model kind %q", spec.Kind)
	}
}

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	features     []string
	classes      []int
	intercept    float64
	coefficients []float64
}

// NewLogisticRegression builds a binary logistic model. The decision function
// scores classes[1], as in scikit-learn.
func NewLogisticRegression(features []string, classes []int, intercept float64, coefficients []float64) (*LogisticRegression, error) {
	if len(classes) != 2 {
		return nil, fmt.Errorf("logistic regression needs exactly 2 classes, got %d", len(classes))
	}
	if len(coefficients) != len(features) {
		return nil, fmt.Errorf("logistic regression has %d coefficients for %d features", len(coefficients), len(features))
	}
	return &LogisticRegression{
		features:     append([]string(nil), features...),
		classes:      append([]int(nil), classes...),
		intercept:    intercept,
		coefficients: append([]float64(nil), coefficients...),
	}, nil
}

func (m *LogisticRegression) FeatureNames() []string { return m.features }
func (m *LogisticRegression) Classes() []int         { return m.classes }

// PredictProba evaluates the sigmoid of the linear decision function.
// The model cannot score a missing value.
func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	if len(x) != len(m.coefficients) {
		return nil, apperr.FeatureMismatch(fmt.Sprintf("expected %d features, got %d", len(m.coefficients), len(x))).WithOp(opPredict)
	}
	z := m.intercept
	for i, v := range x {
		if math.IsNaN(v) {
			return nil, apperr.TypeConversion(fmt.Sprintf("feature %q is missing and the model cannot score NaN", m.features[i])).
				WithOp(opPredict).
				WithDetails(map[string]string{"field": m.features[i]})
		}
		z += m.coefficients[i] * v
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}

type tree struct {
	left, right []int
	feature     []int
	threshold   []float64
	value       [][]float64
	missingLeft []bool
}

// RandomForest averages the class distributions of its trees' leaves.
type RandomForest struct {
	features []string
	classes  []int
	trees    []tree
}

// NewRandomForest validates every tree and builds the ensemble. Child
// indices must point forward so evaluation always terminates.
func NewRandomForest(features []string, classes []int, specs []TreeSpec) (*RandomForest, error) {
	if len(specs) == 0 {
		return nil, errors.New("random forest has no trees")
	}
	forest := &RandomForest{
		features: append([]string(nil), features...),
		classes:  append([]int(nil), classes...),
		trees:    make([]tree, 0, len(specs)),
	}
	for i, spec := range specs {
		t, err := newTree(spec, len(features), len(classes))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		forest.trees = append(forest.trees, t)
	}
	return forest, nil
}

func newTree(spec TreeSpec, nFeatures, nClasses int) (tree, error) {
	n := len(spec.ChildrenLeft)
	if n == 0 {
		return tree{}, errors.New("no nodes")
	}
	if len(spec.ChildrenRight) != n || len(spec.Feature) != n || len(spec.Threshold) != n || len(spec.Value) != n {
		return tree{}, errors.New("node arrays have different lengths")
	}
	if len(spec.MissingGoToLeft) != 0 && len(spec.MissingGoToLeft) != n {
		return tree{}, errors.New("missing_go_to_left has the wrong length")
	}

	t := tree{
		left:      spec.ChildrenLeft,
		right:     spec.ChildrenRight,
		feature:   spec.Feature,
		threshold: spec.Threshold,
		value:     spec.Value,
	}
	if len(spec.MissingGoToLeft) == n {
		t.missingLeft = make([]bool, n)
		for i, v := range spec.MissingGoToLeft {
			t.missingLeft[i] = v != 0
		}
	}

	for node := 0; node < n; node++ {
		l, r := spec.ChildrenLeft[node], spec.ChildrenRight[node]
		if (l == treeLeaf) != (r == treeLeaf) {
			return tree{}, fmt.Errorf("node %d has only one child", node)
		}
		if l == treeLeaf {
			if len(spec.Value[node]) != nClasses {
				return tree{}, fmt.Errorf("leaf %d has %d class weights for %d classes", node, len(spec.Value[node]), nClasses)
			}
			continue
		}
		if l <= node || r <= node || l >= n || r >= n {
			return tree{}, fmt.Errorf("node %d has out-of-order children %d/%d", node, l, r)
		}
		if f := spec.Feature[node]; f < 0 || f >= nFeatures {
			return tree{}, fmt.Errorf("node %d splits on feature %d of %d", node, f, nFeatures)
		}
	}
	return t, nil
}

func (m *RandomForest) FeatureNames() []string { return m.features }
func (m *RandomForest) Classes() []int         { return m.classes }

// PredictProba returns the mean of the normalised leaf distributions.
// At a split x <= threshold goes left; NaN follows missing_go_to_left when
// the tree was trained with missing values and goes right otherwise.
func (m *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != len(m.features) {
		return nil, apperr.FeatureMismatch(fmt.Sprintf("expected %d features, got %d", len(m.features), len(x))).WithOp(opPredict)
	}

	out := make([]float64, len(m.classes))
	for i := range m.trees {
		leaf := m.trees[i].leafFor(x)
		weights := m.trees[i].value[leaf]

		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total <= 0 {
			return nil, apperr.Internal(fmt.Sprintf("tree %d leaf %d has no weight", i, leaf)).WithOp(opPredict)
		}
		for c, w := range weights {
			out[c] += w / total
		}
	}

	for c := range out {
		out[c] /= float64(len(m.trees))
	}
	return out, nil
}

func (t *tree) leafFor(x []float64) int {
	node := 0
	for t.left[node] != treeLeaf {
		v := x[t.feature[node]]
		var goLeft bool
		if math.IsNaN(v) {
			goLeft = t.missingLeft != nil && t.missingLeft[node]
		} else {
			goLeft = v <= t.threshold[node]
		}
		if goLeft {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return node
}
