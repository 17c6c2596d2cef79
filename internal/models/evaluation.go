package models

import "math"

// QuestionEvaluation is the per-turn assessment.
type QuestionEvaluation struct {
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Notes      string   `json:"notes"`
}

// TurnRecord is one main question with its answer and, optionally, a single
// follow-up exchange.
type TurnRecord struct {
	QuestionNumber   int                 `json:"question_number"`
	Question         string              `json:"question"`
	Answer           string              `json:"answer"`
	FollowUpQuestion string              `json:"follow_up_question,omitempty"`
	FollowUpAnswer   string              `json:"follow_up_answer,omitempty"`
	Evaluation       *QuestionEvaluation `json:"evaluation,omitempty"`
}

func (t TurnRecord) HasFollowUp() bool {
	return t.FollowUpQuestion != ""
}

func (t TurnRecord) clone() TurnRecord {
	if t.Evaluation != nil {
		e := *t.Evaluation
		e.Strengths = append([]string(nil), e.Strengths...)
		e.Weaknesses = append([]string(nil), e.Weaknesses...)
		t.Evaluation = &e
	}
	return t
}

type Grade string

const (
	GradeExcellent    Grade = "Excellent"
	GradeVeryGood     Grade = "Very Good"
	GradeGood         Grade = "Good"
	GradeBelowAverage Grade = "Below Average"
	GradePoor         Grade = "Poor"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeExcellent, GradeVeryGood, GradeGood, GradeBelowAverage, GradePoor:
		return true
	}
	return false
}

// GradeForScore maps a 1-10 score onto the grade bands.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 9:
		return GradeExcellent
	case score >= 7:
		return GradeVeryGood
	case score >= 5:
		return GradeGood
	case score >= 3:
		return GradeBelowAverage
	default:
		return GradePoor
	}
}

// RoundScore rounds to one decimal place.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// MeanScore returns the mean of scores and false when there are none.
func MeanScore(scores []int) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), true
}

type PerQuestionFeedback struct {
	QuestionNumber  int    `json:"question_number"`
	Question        string `json:"question"`
	CandidateAnswer string `json:"candidate_answer"`
	Score           int    `json:"score"`
	Feedback        string `json:"feedback"`
	BetterAnswer    string `json:"better_answer"`
}

type FinalReport struct {
	OverallScore        float64               `json:"overall_score"`
	OverallGrade        Grade                 `json:"overall_grade"`
	Summary             string                `json:"summary"`
	PerQuestionFeedback []PerQuestionFeedback `json:"per_question_feedback"`
	TopStrengths        []string              `json:"top_strengths"`
	AreasToImprove      []string              `json:"areas_to_improve"`
	ActionItems         []string              `json:"action_items"`
	ReadyForRole        bool                  `json:"ready_for_role"`
	ReadyExplanation    string                `json:"ready_explanation"`
}
