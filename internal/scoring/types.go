package scoring

import "time"

type OrganizationType string

const (
	OrgIndividual  OrganizationType = "INDIVIDUAL"
	OrgMEI         OrganizationType = "MEI"
	OrgME          OrganizationType = "ME"
	OrgEPP         OrganizationType = "EPP"
	OrgNGO         OrganizationType = "NGO"
	OrgCooperative OrganizationType = "COOPERATIVE"
	OrgFoundation  OrganizationType = "FOUNDATION"
)

// CompanyAge is an ordered tier; comparisons use the ordinal below.
type CompanyAge string

const (
	AgeLessThan6M CompanyAge = "LESS_THAN_6M"
	Age6MTo1Y     CompanyAge = "6M_TO_1Y"
	Age1YTo2Y     CompanyAge = "1Y_TO_2Y"
	AgeMoreThan2Y CompanyAge = "MORE_THAN_2Y"
)

var companyAgeOrder = []CompanyAge{AgeLessThan6M, Age6MTo1Y, Age1YTo2Y, AgeMoreThan2Y}

func ageIndex(a CompanyAge) int {
	for i, v := range companyAgeOrder {
		if v == a {
			return i
		}
	}
	return -1
}

// MeetsMinimumAge reports whether the applicant's tier is at or above the
// required tier. Unknown tiers on either side count as not meeting.
func MeetsMinimumAge(applicant, required CompanyAge) bool {
	ai, ri := ageIndex(applicant), ageIndex(required)
	return ai >= 0 && ri >= 0 && ai >= ri
}

type CulturalArea string

const (
	AreaMusic      CulturalArea = "MUSIC"
	AreaTheater    CulturalArea = "THEATER"
	AreaDance      CulturalArea = "DANCE"
	AreaVisualArts CulturalArea = "VISUAL_ARTS"
	AreaCinema     CulturalArea = "CINEMA"
	AreaLiterature CulturalArea = "LITERATURE"
	AreaCircus     CulturalArea = "CIRCUS"
	AreaHeritage   CulturalArea = "HERITAGE"
	AreaOther      CulturalArea = "OTHER"
)

type LeadStatus string

const (
	StatusNew           LeadStatus = "NEW"
	StatusQualification LeadStatus = "QUALIFICATION"
	StatusProposal      LeadStatus = "PROPOSAL"
	StatusNegotiation   LeadStatus = "NEGOTIATION"
	StatusWon           LeadStatus = "WON"
	StatusLost          LeadStatus = "LOST"
)

// Applicant is the subset of a lead record the scorers consume. Identity
// fields are carried for reporting but never influence a score.
type Applicant struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone,omitempty"`
	OrganizationType   OrganizationType `json:"organization_type"`
	CompanyAge         CompanyAge       `json:"company_age,omitempty"`
	TaxID              string           `json:"tax_id,omitempty"`
	StateCode          string           `json:"state_code,omitempty"`
	City               string           `json:"city,omitempty"`
	CulturalAreas      []CulturalArea   `json:"cultural_areas"`
	InterestedGrants   []string         `json:"interested_grants"`
	ProjectDescription string           `json:"project_description,omitempty"`
	EstimatedBudget    float64          `json:"estimated_budget,omitempty"`
}

// ScoringCriteria is the optional structured requirements block on a grant.
// A nil block means the grant carries no constraint and the scorer awards
// baseline points instead of zero.
type ScoringCriteria struct {
	MinCompanyAge          CompanyAge `json:"minCompanyAge,omitempty"`
	RequiresCulturalCNAE   bool       `json:"requiresCulturalCnae,omitempty"`
	RequiresSalic          bool       `json:"requiresSalic,omitempty"`
	State                  string     `json:"state,omitempty"`
	VariesBySpecificEdital bool       `json:"variesBySpecificEdital,omitempty"`
}

type Grant struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Requirements *ScoringCriteria `json:"requirements,omitempty"`
	ClosesAt     *time.Time       `json:"closes_at,omitempty"`
	Active       bool             `json:"is_active"`
}

type RequirementChecks struct {
	Met    []string `json:"met"`
	NotMet []string `json:"notMet"`
}

// EligibilityResult is rebuilt from scratch on every scoring call; callers
// replace any prior result set rather than mutating one in place.
type EligibilityResult struct {
	GrantID      string            `json:"grantId"`
	GrantName    string            `json:"grantName"`
	Score        int               `json:"score"`
	Eligible     bool              `json:"eligible"`
	Reasons      []string          `json:"reasons"`
	Requirements RequirementChecks `json:"requirements"`
}
