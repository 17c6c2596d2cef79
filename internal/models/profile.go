package models

import "strings"

type OverallMatch string

const (
	MatchStrong   OverallMatch = "strong"
	MatchModerate OverallMatch = "moderate"
	MatchWeak     OverallMatch = "weak"
)

const maxCandidateNameLength = 100

// CandidateProfile is the structured summary of a resume against a job.
type CandidateProfile struct {
	CandidateName      string       `json:"candidate_name"`
	Skills             []string     `json:"skills"`
	ExperienceYears    string       `json:"experience_years"`
	RelevantExperience []string     `json:"relevant_experience"`
	Strengths          []string     `json:"strengths"`
	Gaps               []string     `json:"gaps"`
	Education          string       `json:"education"`
	OverallMatch       OverallMatch `json:"overall_match"`
}

// Normalize applies defaults and bounds to model-produced profile fields.
func (p *CandidateProfile) Normalize() {
	name := strings.TrimSpace(p.CandidateName)
	if name == "" {
		name = "Unknown"
	}
	if runes := []rune(name); len(runes) > maxCandidateNameLength {
		name = string(runes[:maxCandidateNameLength])
	}
	p.CandidateName = name

	switch p.OverallMatch {
	case MatchStrong, MatchModerate, MatchWeak:
	default:
		p.OverallMatch = MatchModerate
	}
	if p.ExperienceYears == "" {
		p.ExperienceYears = "Unknown"
	}
	if p.Education == "" {
		p.Education = "Not specified"
	}
}

type Topic struct {
	Area  string `json:"area"`
	Focus string `json:"focus"`
	Why   string `json:"why"`
}

type InterviewPlan struct {
	Topics []Topic `json:"topics"`
}

// TopicAt clamps index into the plan so a question can always be asked.
func (p *InterviewPlan) TopicAt(index int) (Topic, bool) {
	if p == nil || len(p.Topics) == 0 {
		return Topic{}, false
	}
	if index >= len(p.Topics) {
		index = len(p.Topics) - 1
	}
	if index < 0 {
		index = 0
	}
	return p.Topics[index], true
}
