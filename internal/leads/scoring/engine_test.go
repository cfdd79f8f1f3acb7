package scoring

import (
	"math"
	"testing"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/platform/apperr"
)

// stump splits on "a" at 0.5: left leaf is 3:1 against, right leaf 1:3 for.
func stump() TreeSpec {
	return TreeSpec{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{0.5, -2, -2},
		Value:         [][]float64{{4, 4}, {3, 1}, {1, 3}},
	}
}

func newForest(t *testing.T, trees ...TreeSpec) *RandomForest {
	t.Helper()
	forest, err := NewRandomForest([]string{"a", "b"}, []int{0, 1}, trees)
	if err != nil {
		t.Fatalf("new forest: %v", err)
	}
	return forest
}

func TestEngineScoresPositiveClass(t *testing.T) {
	engine, err := NewEngine(newForest(t, stump()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	p, err := engine.Score(map[string]float64{"a": 1, "b": 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0.75 {
		t.Fatalf("expected 0.75, got %v", p)
	}

	p, _ = engine.Score(map[string]float64{"a": 0.5, "b": 0})
	if p != 0.25 {
		t.Fatalf("threshold ties go left; expected 0.25, got %v", p)
	}
}

func TestEngineUsesIndexOfClassOne(t *testing.T) {
	forest, err := NewRandomForest([]string{"a", "b"}, []int{1, 0}, []TreeSpec{stump()})
	if err != nil {
		t.Fatalf("new forest: %v", err)
	}
	engine, err := NewEngine(forest)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	p, _ := engine.Score(map[string]float64{"a": 1, "b": 0})
	if p != 0.25 {
		t.Fatalf("class 1 is listed first, expected 0.25, got %v", p)
	}
}

func TestEngineDetectsFeatureDrift(t *testing.T) {
	engine, _ := NewEngine(newForest(t, stump()))

	_, err := engine.Score(map[string]float64{"a": 1, "B": 0})
	if !apperr.Is(err, apperr.KindFeatureMismatch) {
		t.Fatalf("expected feature mismatch, got %v", err)
	}
	domainErr, _ := apperr.As(err)
	details := domainErr.Details.(map[string][]string)
	if len(details["missing"]) != 1 || details["missing"][0] != "b" {
		t.Fatalf("expected b to be reported missing, got %v", details["missing"])
	}
	if len(details["unexpected"]) != 1 || details["unexpected"][0] != "B" {
		t.Fatalf("expected B to be reported unexpected, got %v", details["unexpected"])
	}
}

func TestEngineRequiresPositiveClass(t *testing.T) {
	forest, err := NewRandomForest([]string{"a", "b"}, []int{0, 2}, []TreeSpec{stump()})
	if err != nil {
		t.Fatalf("new forest: %v", err)
	}
	if _, err := NewEngine(forest); err == nil {
		t.Fatal("expected an error when class 1 is absent")
	}
}

func TestEngineIsDeterministic(t *testing.T) {
	second := stump()
	second.Feature = []int{1, -2, -2}
	engine, _ := NewEngine(newForest(t, stump(), second))

	features := map[string]float64{"a": 0.9, "b": 0.1}
	first, _ := engine.Score(features)
	for i := 0; i < 10; i++ {
		again, _ := engine.Score(features)
		if again != first {
			t.Fatalf("run %d returned %v, first run %v", i, again, first)
		}
	}
	if first != 0.5 {
		t.Fatalf("expected the mean of 0.75 and 0.25, got %v", first)
	}
}

func TestForestMissingValueRouting(t *testing.T) {
	plain := newForest(t, stump())
	proba, err := plain.PredictProba([]float64{math.NaN(), 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proba[1] != 0.75 {
		t.Fatalf("NaN should go right without missing_go_to_left, got %v", proba)
	}

	withMissing := stump()
	withMissing.MissingGoToLeft = []int{1, 0, 0}
	proba, _ = newForest(t, withMissing).PredictProba([]float64{math.NaN(), 0})
	if proba[1] != 0.25 {
		t.Fatalf("NaN should follow missing_go_to_left, got %v", proba)
	}
}

func TestNewRandomForestRejectsMalformedTrees(t *testing.T) {
	cases := map[string]func(*TreeSpec){
		"length mismatch":   func(s *TreeSpec) { s.Threshold = s.Threshold[:2] },
		"backward child":    func(s *TreeSpec) { s.ChildrenLeft[0] = 0 },
		"one child":         func(s *TreeSpec) { s.ChildrenRight[0] = -1 },
		"feature range":     func(s *TreeSpec) { s.Feature[0] = 5 },
		"leaf weights":      func(s *TreeSpec) { s.Value[1] = []float64{1} },
		"missing mask size": func(s *TreeSpec) { s.MissingGoToLeft = []int{1} },
	}
	for name, mutate := range cases {
		spec := stump()
		mutate(&spec)
		if _, err := NewRandomForest([]string{"a", "b"}, []int{0, 1}, []TreeSpec{spec}); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	if _, err := NewRandomForest([]string{"a"}, []int{0, 1}, nil); err == nil {
		t.Error("expected an error for an empty forest")
	}
}

func TestLogisticRegression(t *testing.T) {
	model, err := NewLogisticRegression([]string{"a", "b"}, []int{0, 1}, 0, []float64{1, -1})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	engine, _ := NewEngine(model)

	p, err := engine.Score(map[string]float64{"a": 2, "b": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0.5 {
		t.Fatalf("zero decision value should give 0.5, got %v", p)
	}

	p, _ = engine.Score(map[string]float64{"a": 3, "b": 1})
	want := 1 / (1 + math.Exp(-2))
	if math.Abs(p-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, p)
	}

	_, err = engine.Score(map[string]float64{"a": math.NaN(), "b": 1})
	if !apperr.Is(err, apperr.KindTypeConversion) {
		t.Fatalf("expected type conversion error for NaN, got %v", err)
	}
}

func TestNewLogisticRegressionValidates(t *testing.T) {
	if _, err := NewLogisticRegression([]string{"a"}, []int{0, 1}, 0, []float64{1, 2}); err == nil {
		t.Fatal("expected coefficient count error")
	}
	if _, err := NewLogisticRegression([]string{"a"}, []int{0, 1, 2}, 0, []float64{1}); err == nil {
		t.Fatal("expected class count error")
	}
}

func TestBuild(t *testing.T) {
	model, err := Build(ModelSpec{
		Kind:         KindLogisticRegression,
		FeatureNames: []string{"a"},
		Coefficients: []float64{0.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classes := model.Classes(); len(classes) != 2 || classes[1] != 1 {
		t.Fatalf("expected default classes [0 1], got %v", classes)
	}

	if _, err := Build(ModelSpec{Kind: "xgboost", FeatureNames: []string{"a"}}); err == nil {
		t.Fatal("expected unsupported kind error")
	}
	if _, err := Build(ModelSpec{Kind: KindLogisticRegression}); err == nil {
		t.Fatal("expected missing feature names error")
	}
}

func TestToFeatures(t *testing.T) {
	features, err := ToFeatures(domain.Row{
		"code":    int64(3),
		"visits":  2.5,
		"numeric": " 4.25 ",
		"missing": nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if features["code"] != 3 || features["visits"] != 2.5 || features["numeric"] != 4.25 {
		t.Fatalf("unexpected conversion %v", features)
	}
	if !math.IsNaN(features["missing"]) {
		t.Fatalf("nil should become NaN, got %v", features["missing"])
	}

	_, err = ToFeatures(domain.Row{"Lead Source": "Google"})
	if !apperr.Is(err, apperr.KindTypeConversion) {
		t.Fatalf("expected type conversion error, got %v", err)
	}
}
