package domain

// FieldKind tells the pipeline how a field reaches the model.
type FieldKind int

const (
	// Categorical fields are strings that go through the label encoder.
	Categorical FieldKind = iota
	// Numeric fields are handed to the model as-is.
	Numeric
)

// Field describes one lead attribute in all the spellings it has:
// the request/JSON name, the column label the model was trained on,
// and the storage column. Get and Ref give typed access without reflection.
type Field struct {
	Name     string
	Label    string
	Column   string
	Kind     FieldKind
	Optional bool
	Get      func(*Lead) any
	Ref      func(*Lead) any
}

func str(name, label, column string, p func(*Lead) *string) Field {
	return Field{
		Name: name, Label: label, Column: column, Kind: Categorical,
		Get: func(l *Lead) any { return *p(l) },
		Ref: func(l *Lead) any { return p(l) },
	}
}

func optStr(name, label, column string, p func(*Lead) **string) Field {
	return Field{
		Name: name, Label: label, Column: column, Kind: Categorical, Optional: true,
		Get: func(l *Lead) any {
			if v := *p(l); v != nil {
				return *v
			}
			return nil
		},
		Ref: func(l *Lead) any { return p(l) },
	}
}

func num(name, label, column string, p func(*Lead) *float64) Field {
	return Field{
		Name: name, Label: label, Column: column, Kind: Numeric,
		Get: func(l *Lead) any { return *p(l) },
		Ref: func(l *Lead) any { return p(l) },
	}
}

func optNum(name, label, column string, p func(*Lead) **float64) Field {
	return Field{
		Name: name, Label: label, Column: column, Kind: Numeric, Optional: true,
		Get: func(l *Lead) any {
			if v := *p(l); v != nil {
				return *v
			}
			return nil
		},
		Ref: func(l *Lead) any { return p(l) },
	}
}

// Fields lists every lead attribute in request order. Labels are the
// human-readable column headers of the training data set; they are the
// underscore names with underscores replaced by spaces.
var Fields = []Field{
	{
		Name: "Lead_Number", Label: "Lead Number", Column: "lead_number", Kind: Numeric,
		Get: func(l *Lead) any { return l.LeadNumber },
		Ref: func(l *Lead) any { return &l.LeadNumber },
	},
	str("Lead_Origin", "Lead Origin", "lead_origin", func(l *Lead) *string { return &l.LeadOrigin }),
	str("Lead_Source", "Lead Source", "lead_source", func(l *Lead) *string { return &l.LeadSource }),
	str("Do_Not_Email", "Do Not Email", "do_not_email", func(l *Lead) *string { return &l.DoNotEmail }),
	str("Do_Not_Call", "Do Not Call", "do_not_call", func(l *Lead) *string { return &l.DoNotCall }),
	num("TotalVisits", "TotalVisits", "total_visits", func(l *Lead) *float64 { return &l.TotalVisits }),
	num("Total_Time_Spent_on_Website", "Total Time Spent on Website", "total_time_spent_on_website",
		func(l *Lead) *float64 { return &l.TotalTimeSpentOnWebsite }),
	num("Page_Views_Per_Visit", "Page Views Per Visit", "page_views_per_visit",
		func(l *Lead) *float64 { return &l.PageViewsPerVisit }),
	str("Last_Activity", "Last Activity", "last_activity", func(l *Lead) *string { return &l.LastActivity }),
	str("Country", "Country", "country", func(l *Lead) *string { return &l.Country }),
	str("Specialization", "Specialization", "specialization", func(l *Lead) *string { return &l.Specialization }),
	optStr("How_did_you_hear_about_X_Education", "How did you hear about X Education", "how_did_you_hear_about_x_education",
		func(l *Lead) **string { return &l.HowDidYouHearAboutXEducation }),
	str("What_is_your_current_occupation", "What is your current occupation", "what_is_your_current_occupation",
		func(l *Lead) *string { return &l.WhatIsYourCurrentOccupation }),
	str("What_matters_most_to_you_in_choosing_a_course", "What matters most to you in choosing a course",
		"what_matters_most_to_you_in_choosing_a_course",
		func(l *Lead) *string { return &l.WhatMattersMostToYouInChoosingCourse }),
	str("Search", "Search", "search", func(l *Lead) *string { return &l.Search }),
	str("Magazine", "Magazine", "magazine", func(l *Lead) *string { return &l.Magazine }),
	str("Newspaper_Article", "Newspaper Article", "newspaper_article", func(l *Lead) *string { return &l.NewspaperArticle }),
	str("X_Education_Forums", "X Education Forums", "x_education_forums", func(l *Lead) *string { return &l.XEducationForums }),
	str("Newspaper", "Newspaper", "newspaper", func(l *Lead) *string { return &l.Newspaper }),
	str("Digital_Advertisement", "Digital Advertisement", "digital_advertisement",
		func(l *Lead) *string { return &l.DigitalAdvertisement }),
	str("Through_Recommendations", "Through Recommendations", "through_recommendations",
		func(l *Lead) *string { return &l.ThroughRecommendations }),
	str("Receive_More_Updates_About_Our_Courses", "Receive More Updates About Our Courses",
		"receive_more_updates_about_our_courses",
		func(l *Lead) *string { return &l.ReceiveMoreUpdatesAboutOurCourses }),
	str("Tags", "Tags", "tags", func(l *Lead) *string { return &l.Tags }),
	str("Lead_Quality", "Lead Quality", "lead_quality", func(l *Lead) *string { return &l.LeadQuality }),
	str("Update_me_on_Supply_Chain_Content", "Update me on Supply Chain Content", "update_me_on_supply_chain_content",
		func(l *Lead) *string { return &l.UpdateMeOnSupplyChainContent }),
	str("Get_updates_on_DM_Content", "Get updates on DM Content", "get_updates_on_dm_content",
		func(l *Lead) *string { return &l.GetUpdatesOnDMContent }),
	str("Lead_Profile", "Lead Profile", "lead_profile", func(l *Lead) *string { return &l.LeadProfile }),
	optStr("City", "City", "city", func(l *Lead) **string { return &l.City }),
	optStr("Asymmetrique_Activity_Index", "Asymmetrique Activity Index", "asymmetrique_activity_index",
		func(l *Lead) **string { return &l.AsymmetriqueActivityIndex }),
	optStr("Asymmetrique_Profile_Index", "Asymmetrique Profile Index", "asymmetrique_profile_index",
		func(l *Lead) **string { return &l.AsymmetriqueProfileIndex }),
	optNum("Asymmetrique_Activity_Score", "Asymmetrique Activity Score", "asymmetrique_activity_score",
		func(l *Lead) **float64 { return &l.AsymmetriqueActivityScore }),
	optNum("Asymmetrique_Profile_Score", "Asymmetrique Profile Score", "asymmetrique_profile_score",
		func(l *Lead) **float64 { return &l.AsymmetriqueProfileScore }),
	str("I_agree_to_pay_the_amount_through_cheque", "I agree to pay the amount through cheque",
		"i_agree_to_pay_the_amount_through_cheque",
		func(l *Lead) *string { return &l.IAgreeToPayTheAmountThroughCheque }),
	str("A_free_copy_of_Mastering_The_Interview", "A free copy of Mastering The Interview",
		"a_free_copy_of_mastering_the_interview",
		func(l *Lead) *string { return &l.AFreeCopyOfMasteringTheInterview }),
	str("Last_Notable_Activity", "Last Notable Activity", "last_notable_activity",
		func(l *Lead) *string { return &l.LastNotableActivity }),
}

var fieldsByLabel = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Label] = f
	}
	return m
}()

// FieldByLabel looks up a field by its trained column label.
func FieldByLabel(label string) (Field, bool) {
	f, ok := fieldsByLabel[label]
	return f, ok
}

// Labels returns every trained column label in request order.
func Labels() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = f.Label
	}
	return out
}

// Columns returns every storage column in request order.
func Columns() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = f.Column
	}
	return out
}

// Row is one lead keyed by trained column label. Values are string,
// int64, float64 or nil until the encoder replaces categories with codes.
type Row map[string]any

// FeatureRow lays the original lead out under the trained column labels.
func FeatureRow(lead Lead) Row {
	row := make(Row, len(Fields))
	for _, f := range Fields {
		row[f.Label] = f.Get(&lead)
	}
	return row
}
