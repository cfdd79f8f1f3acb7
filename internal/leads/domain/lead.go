// Package domain holds the lead entities shared by the scoring pipeline,
// the encoder and the repository.
package domain

import (
	"math"
	"time"
)

// Lead is one validated scoring request. Optional attributes are pointers;
// nil means the caller sent null or omitted the field.
type Lead struct {
	LeadNumber                           int64
	LeadOrigin                           string
	LeadSource                           string
	DoNotEmail                           string
	DoNotCall                            string
	TotalVisits                          float64
	TotalTimeSpentOnWebsite              float64
	PageViewsPerVisit                    float64
	LastActivity                         string
	Country                              string
	Specialization                       string
	HowDidYouHearAboutXEducation         *string
	WhatIsYourCurrentOccupation          string
	WhatMattersMostToYouInChoosingCourse string
	Search                               string
	Magazine                             string
	NewspaperArticle                     string
	XEducationForums                     string
	Newspaper                            string
	DigitalAdvertisement                 string
	ThroughRecommendations               string
	ReceiveMoreUpdatesAboutOurCourses    string
	Tags                                 string
	LeadQuality                          string
	UpdateMeOnSupplyChainContent         string
	GetUpdatesOnDMContent                string
	LeadProfile                          string
	City                                 *string
	AsymmetriqueActivityIndex            *string
	AsymmetriqueProfileIndex             *string
	AsymmetriqueActivityScore            *float64
	AsymmetriqueProfileScore             *float64
	IAgreeToPayTheAmountThroughCheque    string
	AFreeCopyOfMasteringTheInterview     string
	LastNotableActivity                  string
}

// LeadRecord is the persisted form of a scored lead. It is written once and
// never updated. ID and CreatedAt are assigned by storage.
type LeadRecord struct {
	ID        int64
	Lead      Lead
	Score     float64
	CreatedAt time.Time
}

// NewLeadRecord builds the record to persist from the original (not encoded)
// lead and its score.
func NewLeadRecord(lead Lead, score float64) LeadRecord {
	return LeadRecord{
		Lead:  lead,
		Score: score,
	}
}

// ScoreFromProbability converts a class-1 probability into the 0-100 score
// with two decimals. Halves round to even, matching numpy.round.
func ScoreFromProbability(p float64) float64 {
	return math.RoundToEven(p*100*100) / 100
}
