// Package leadtest provides fixture leads and artifacts for tests.
package leadtest

import (
	"sort"
	"testing"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/internal/leads/encoding"
	"leadscore_backend/internal/leads/scoring"
)

// SampleScore is the score the fixture model gives Lead.
const SampleScore = 22.5

func ptr[T any](v T) *T { return &v }

// Lead returns a complete, valid lead with the given number.
func Lead(number int64) domain.Lead {
	return domain.Lead{
		LeadNumber:                           number,
		LeadOrigin:                           "API",
		LeadSource:                           "Olark Chat",
		DoNotEmail:                           "No",
		DoNotCall:                            "No",
		TotalVisits:                          0,
		TotalTimeSpentOnWebsite:              0,
		PageViewsPerVisit:                    0,
		LastActivity:                         "Page Visited on Website",
		Country:                              "India",
		Specialization:                       "Select",
		HowDidYouHearAboutXEducation:         ptr("Select"),
		WhatIsYourCurrentOccupation:          "Unemployed",
		WhatMattersMostToYouInChoosingCourse: "Better Career Prospects",
		Search:                               "No",
		Magazine:                             "No",
		NewspaperArticle:                     "No",
		XEducationForums:                     "No",
		Newspaper:                            "No",
		DigitalAdvertisement:                 "No",
		ThroughRecommendations:               "No",
		ReceiveMoreUpdatesAboutOurCourses:    "No",
		Tags:                                 "Interested in other courses",
		LeadQuality:                          "Low in Relevance",
		UpdateMeOnSupplyChainContent:         "No",
		GetUpdatesOnDMContent:                "No",
		LeadProfile:                          "Select",
		City:                                 ptr("Select"),
		AsymmetriqueActivityIndex:            ptr("02.Medium"),
		AsymmetriqueProfileIndex:             ptr("02.Medium"),
		AsymmetriqueActivityScore:            ptr(15.0),
		AsymmetriqueProfileScore:             ptr(15.0),
		IAgreeToPayTheAmountThroughCheque:    "No",
		AFreeCopyOfMasteringTheInterview:     "No",
		LastNotableActivity:                  "Modified",
	}
}

// EncoderClasses returns sorted class lists for every categorical field.
// Each list holds the value Lead uses, "Yes", "Select" and the unknown class.
func EncoderClasses() map[string][]string {
	sample := domain.FeatureRow(Lead(1))
	out := make(map[string][]string)
	for _, f := range domain.Fields {
		if f.Kind != domain.Categorical {
			continue
		}
		seen := map[string]bool{"Select": true, "Yes": true, encoding.Unknown: true}
		if v, ok := sample[f.Label].(string); ok {
			seen[v] = true
		}
		classes := make([]string, 0, len(seen))
		for class := range seen {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		out[f.Label] = classes
	}
	return out
}

// EncoderTable builds the table described by EncoderClasses.
func EncoderTable(tb testing.TB) *encoding.Table {
	tb.Helper()
	table, err := encoding.NewTable(EncoderClasses())
	if err != nil {
		tb.Fatalf("fixture encoder table: %v", err)
	}
	return table
}

// ModelSpec returns a two-tree forest over every trained column. One tree
// splits on time spent on the website, the other on total visits.
func ModelSpec() scoring.ModelSpec {
	labels := domain.Labels()
	index := func(label string) int {
		for i, l := range labels {
			if l == label {
				return i
			}
		}
		panic("leadtest: unknown label " + label)
	}

	return scoring.ModelSpec{
		Kind:         scoring.KindRandomForest,
		FeatureNames: labels,
		Classes:      []int{0, 1},
		Trees: []scoring.TreeSpec{
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{index("Total Time Spent on Website"), -2, -2},
				Threshold:     []float64{500, -2, -2},
				Value:         [][]float64{{0.5, 0.5}, {0.8, 0.2}, {0.1, 0.9}},
			},
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{index("TotalVisits"), -2, -2},
				Threshold:     []float64{2.5, -2, -2},
				Value:         [][]float64{{4, 4}, {3, 1}, {1, 3}},
			},
		},
	}
}

// Engine builds a scoring engine from ModelSpec.
func Engine(tb testing.TB) *scoring.Engine {
	tb.Helper()
	model, err := scoring.Build(ModelSpec())
	if err != nil {
		tb.Fatalf("fixture model: %v", err)
	}
	engine, err := scoring.NewEngine(model)
	if err != nil {
		tb.Fatalf("fixture engine: %v", err)
	}
	return engine
}
