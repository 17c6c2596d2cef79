package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Grade
	}{
		{10, GradeExcellent},
		{9, GradeExcellent},
		{8.9, GradeVeryGood},
		{7, GradeVeryGood},
		{5, GradeGood},
		{4.99, GradeBelowAverage},
		{3, GradeBelowAverage},
		{2.9, GradePoor},
		{1, GradePoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeForScore(tc.score), "score %v", tc.score)
	}
}

func TestProfileNormalize(t *testing.T) {
	p := CandidateProfile{CandidateName: "  " + strings.Repeat("a", 150) + " ", OverallMatch: "excellent"}
	p.Normalize()

	assert.Len(t, []rune(p.CandidateName), 100)
	assert.Equal(t, MatchModerate, p.OverallMatch)

	empty := CandidateProfile{OverallMatch: MatchStrong}
	empty.Normalize()
	assert.Equal(t, "Unknown", empty.CandidateName)
	assert.Equal(t, MatchStrong, empty.OverallMatch)
}

func TestTopicAtClamps(t *testing.T) {
	plan := &InterviewPlan{Topics: []Topic{{Area: "a"}, {Area: "b"}}}

	topic, ok := plan.TopicAt(5)
	require.True(t, ok)
	assert.Equal(t, "b", topic.Area)

	_, ok = (&InterviewPlan{}).TopicAt(0)
	assert.False(t, ok)
}

func TestSessionTurnRoundTrip(t *testing.T) {
	turn := TurnRecord{
		QuestionNumber:   2,
		Question:         "Tell me about a conflict.",
		Answer:           "I mediated.",
		FollowUpQuestion: "What was the outcome?",
		FollowUpAnswer:   "Shipped on time.",
		Evaluation:       &QuestionEvaluation{Score: 7, Strengths: []string{"clear"}, Weaknesses: []string{}, Notes: "ok"},
	}

	row := NewSessionTurn("abc", turn)
	assert.Equal(t, "abc", row.SessionID)
	assert.Equal(t, turn, row.Record())
}

func TestStateReconstructionIndex(t *testing.T) {
	row := &InterviewSession{
		ID:     "s1",
		Status: StatusInterviewing,
		Turns:  []SessionTurn{{QuestionNumber: 1}, {QuestionNumber: 2}},
	}
	assert.Equal(t, 2, row.State(8).CurrentQuestionIndex)

	row.Status = StatusCompleted
	assert.Equal(t, 1, row.State(8).CurrentQuestionIndex)

	row.Status = StatusInterviewing
	assert.Equal(t, 1, row.State(2).CurrentQuestionIndex)
}

func TestStartRequestValidation(t *testing.T) {
	valid := StartInterviewRequest{
		ResumeText:     strings.Repeat("r", 60),
		JobDescription: strings.Repeat("j", 25),
		InterviewType:  InterviewBehavioral,
		Difficulty:     DifficultyJunior,
	}
	require.NoError(t, valid.Validate())

	short := valid
	short.ResumeText = "too short"
	assert.Error(t, short.Validate())

	badType := valid
	badType.InterviewType = "case"
	assert.Error(t, badType.Validate())

	badLang := valid
	badLang.Language = "fr"
	assert.Error(t, badLang.Validate())
}

func TestSubmitAnswerValidation(t *testing.T) {
	assert.NoError(t, (&SubmitAnswerRequest{SessionID: "x", Answer: "y"}).Validate())
	assert.Error(t, (&SubmitAnswerRequest{SessionID: "x"}).Validate())
	assert.Error(t, (&SubmitAnswerRequest{SessionID: "x", Answer: strings.Repeat("a", 10001)}).Validate())
}

func TestMeanScore(t *testing.T) {
	mean, ok := MeanScore([]int{8, 7, 9, 6})
	require.True(t, ok)
	assert.Equal(t, 7.5, RoundScore(mean))

	_, ok = MeanScore(nil)
	assert.False(t, ok)
}
