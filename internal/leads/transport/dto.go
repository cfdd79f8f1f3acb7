package transport

import (
	"time"

	"leadscore_backend/internal/leads/domain"
)

// DuplicateMessage is returned instead of a score for a known lead.
const DuplicateMessage = "Lead already exists in the database."

// Request DTOs

// LeadInput is the body of a prediction request. Required fields are
// pointers so that an omitted field can be told apart from a zero value.
type LeadInput struct {
	LeadNumber                           *int64   `json:"Lead_Number" validate:"required,gt=0"`
	LeadOrigin                           *string  `json:"Lead_Origin" validate:"required"`
	LeadSource                           *string  `json:"Lead_Source" validate:"required"`
	DoNotEmail                           *string  `json:"Do_Not_Email" validate:"required"`
	DoNotCall                            *string  `json:"Do_Not_Call" validate:"required"`
	TotalVisits                          *float64 `json:"TotalVisits" validate:"required,gte=0"`
	TotalTimeSpentOnWebsite              *float64 `json:"Total_Time_Spent_on_Website" validate:"required,gte=0"`
	PageViewsPerVisit                    *float64 `json:"Page_Views_Per_Visit" validate:"required,gte=0"`
	LastActivity                         *string  `json:"Last_Activity" validate:"required"`
	Country                              *string  `json:"Country" validate:"required"`
	Specialization                       *string  `json:"Specialization" validate:"required"`
	HowDidYouHearAboutXEducation         *string  `json:"How_did_you_hear_about_X_Education,omitempty"`
	WhatIsYourCurrentOccupation          *string  `json:"What_is_your_current_occupation" validate:"required"`
	WhatMattersMostToYouInChoosingCourse *string  `json:"What_matters_most_to_you_in_choosing_a_course" validate:"required"`
	Search                               *string  `json:"Search" validate:"required"`
	Magazine                             *string  `json:"Magazine" validate:"required"`
	NewspaperArticle                     *string  `json:"Newspaper_Article" validate:"required"`
	XEducationForums                     *string  `json:"X_Education_Forums" validate:"required"`
	Newspaper                            *string  `json:"Newspaper" validate:"required"`
	DigitalAdvertisement                 *string  `json:"Digital_Advertisement" validate:"required"`
	ThroughRecommendations               *string  `json:"Through_Recommendations" validate:"required"`
	ReceiveMoreUpdatesAboutOurCourses    *string  `json:"Receive_More_Updates_About_Our_Courses" validate:"required"`
	Tags                                 *string  `json:"Tags" validate:"required"`
	LeadQuality                          *string  `json:"Lead_Quality" validate:"required"`
	UpdateMeOnSupplyChainContent         *string  `json:"Update_me_on_Supply_Chain_Content" validate:"required"`
	GetUpdatesOnDMContent                *string  `json:"Get_updates_on_DM_Content" validate:"required"`
	LeadProfile                          *string  `json:"Lead_Profile" validate:"required"`
	City                                 *string  `json:"City,omitempty"`
	AsymmetriqueActivityIndex            *string  `json:"Asymmetrique_Activity_Index,omitempty"`
	AsymmetriqueProfileIndex             *string  `json:"Asymmetrique_Profile_Index,omitempty"`
	AsymmetriqueActivityScore            *float64 `json:"Asymmetrique_Activity_Score,omitempty" validate:"omitempty,gte=0"`
	AsymmetriqueProfileScore             *float64 `json:"Asymmetrique_Profile_Score,omitempty" validate:"omitempty,gte=0"`
	IAgreeToPayTheAmountThroughCheque    *string  `json:"I_agree_to_pay_the_amount_through_cheque" validate:"required"`
	AFreeCopyOfMasteringTheInterview     *string  `json:"A_free_copy_of_Mastering_The_Interview" validate:"required"`
	LastNotableActivity                  *string  `json:"Last_Notable_Activity" validate:"required"`
}

// ToLead converts a validated input. It must only be called after the
// required fields were checked.
func (in LeadInput) ToLead() domain.Lead {
	return domain.Lead{
		LeadNumber:                           *in.LeadNumber,
		LeadOrigin:                           *in.LeadOrigin,
		LeadSource:                           *in.LeadSource,
		DoNotEmail:                           *in.DoNotEmail,
		DoNotCall:                            *in.DoNotCall,
		TotalVisits:                          *in.TotalVisits,
		TotalTimeSpentOnWebsite:              *in.TotalTimeSpentOnWebsite,
		PageViewsPerVisit:                    *in.PageViewsPerVisit,
		LastActivity:                         *in.LastActivity,
		Country:                              *in.Country,
		Specialization:                       *in.Specialization,
		HowDidYouHearAboutXEducation:         in.HowDidYouHearAboutXEducation,
		WhatIsYourCurrentOccupation:          *in.WhatIsYourCurrentOccupation,
		WhatMattersMostToYouInChoosingCourse: *in.WhatMattersMostToYouInChoosingCourse,
		Search:                               *in.Search,
		Magazine:                             *in.Magazine,
		NewspaperArticle:                     *in.NewspaperArticle,
		XEducationForums:                     *in.XEducationForums,
		Newspaper:                            *in.Newspaper,
		DigitalAdvertisement:                 *in.DigitalAdvertisement,
		ThroughRecommendations:               *in.ThroughRecommendations,
		ReceiveMoreUpdatesAboutOurCourses:    *in.ReceiveMoreUpdatesAboutOurCourses,
		Tags:                                 *in.Tags,
		LeadQuality:                          *in.LeadQuality,
		UpdateMeOnSupplyChainContent:         *in.UpdateMeOnSupplyChainContent,
		GetUpdatesOnDMContent:                *in.GetUpdatesOnDMContent,
		LeadProfile:                          *in.LeadProfile,
		City:                                 in.City,
		AsymmetriqueActivityIndex:            in.AsymmetriqueActivityIndex,
		AsymmetriqueProfileIndex:             in.AsymmetriqueProfileIndex,
		AsymmetriqueActivityScore:            in.AsymmetriqueActivityScore,
		AsymmetriqueProfileScore:             in.AsymmetriqueProfileScore,
		IAgreeToPayTheAmountThroughCheque:    *in.IAgreeToPayTheAmountThroughCheque,
		AFreeCopyOfMasteringTheInterview:     *in.AFreeCopyOfMasteringTheInterview,
		LastNotableActivity:                  *in.LastNotableActivity,
	}
}

// FromLead is the inverse of ToLead.
func FromLead(l domain.Lead) LeadInput {
	return LeadInput{
		LeadNumber:                           &l.LeadNumber,
		LeadOrigin:                           &l.LeadOrigin,
		LeadSource:                           &l.LeadSource,
		DoNotEmail:                           &l.DoNotEmail,
		DoNotCall:                            &l.DoNotCall,
		TotalVisits:                          &l.TotalVisits,
		TotalTimeSpentOnWebsite:              &l.TotalTimeSpentOnWebsite,
		PageViewsPerVisit:                    &l.PageViewsPerVisit,
		LastActivity:                         &l.LastActivity,
		Country:                              &l.Country,
		Specialization:                       &l.Specialization,
		HowDidYouHearAboutXEducation:         l.HowDidYouHearAboutXEducation,
		WhatIsYourCurrentOccupation:          &l.WhatIsYourCurrentOccupation,
		WhatMattersMostToYouInChoosingCourse: &l.WhatMattersMostToYouInChoosingCourse,
		Search:                               &l.Search,
		Magazine:                             &l.Magazine,
		NewspaperArticle:                     &l.NewspaperArticle,
		XEducationForums:                     &l.XEducationForums,
		Newspaper:                            &l.Newspaper,
		DigitalAdvertisement:                 &l.DigitalAdvertisement,
		ThroughRecommendations:               &l.ThroughRecommendations,
		ReceiveMoreUpdatesAboutOurCourses:    &l.ReceiveMoreUpdatesAboutOurCourses,
		Tags:                                 &l.Tags,
		LeadQuality:                          &l.LeadQuality,
		UpdateMeOnSupplyChainContent:         &l.UpdateMeOnSupplyChainContent,
		GetUpdatesOnDMContent:                &l.GetUpdatesOnDMContent,
		LeadProfile:                          &l.LeadProfile,
		City:                                 l.City,
		AsymmetriqueActivityIndex:            l.AsymmetriqueActivityIndex,
		AsymmetriqueProfileIndex:             l.AsymmetriqueProfileIndex,
		AsymmetriqueActivityScore:            l.AsymmetriqueActivityScore,
		AsymmetriqueProfileScore:             l.AsymmetriqueProfileScore,
		IAgreeToPayTheAmountThroughCheque:    &l.IAgreeToPayTheAmountThroughCheque,
		AFreeCopyOfMasteringTheInterview:     &l.AFreeCopyOfMasteringTheInterview,
		LastNotableActivity:                  &l.LastNotableActivity,
	}
}

// Response DTOs

type ScoreResponse struct {
	Score float64 `json:"score"`
}

type DuplicateResponse struct {
	Message string `json:"message"`
}

type LeadRecordResponse struct {
	ID        int64     `json:"id"`
	Lead      LeadInput `json:"lead"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToLeadRecordResponse(rec domain.LeadRecord) LeadRecordResponse {
	return LeadRecordResponse{
		ID:        rec.ID,
		Lead:      FromLead(rec.Lead),
		Score:     rec.Score,
		CreatedAt: rec.CreatedAt,
	}
}
