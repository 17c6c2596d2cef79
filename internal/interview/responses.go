package interview

import (
	"time"

	"alfredoptarigan/interview-simulator/internal/cache"
	"alfredoptarigan/interview-simulator/internal/models"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// activeQuestion is nil once the session no longer takes answers.
func activeQuestion(st *models.SessionState) *string {
	if st.Status.IsTerminal() {
		return nil
	}
	return optional(st.CurrentQuestion)
}

func startResponse(st *models.SessionState, totalQuestions int) *models.StartInterviewResponse {
	return &models.StartInterviewResponse{
		SessionID:       st.ID,
		Status:          string(st.Status),
		CurrentQuestion: activeQuestion(st),
		QuestionNumber:  st.CurrentQuestionIndex + 1,
		TotalQuestions:  totalQuestions,
		CandidateName:   optional(st.CandidateName()),
		InterviewType:   st.InterviewType,
		Difficulty:      st.Difficulty,
		ErrorMessage:    optional(st.ErrorMessage),
	}
}

func answerResponse(st *models.SessionState, out *Outcome, totalQuestions int) *models.SubmitAnswerResponse {
	status := string(st.Status)
	if out.Pending != nil {
		status = StatusAwaitingFollowUp
	}

	resp := &models.SubmitAnswerResponse{
		SessionID:       st.ID,
		Status:          status,
		CurrentQuestion: activeQuestion(st),
		QuestionNumber:  st.CurrentQuestionIndex + 1,
		IsFollowUp:      st.IsFollowUp && !st.Status.IsTerminal(),
		TotalQuestions:  totalQuestions,
		ErrorMessage:    optional(st.ErrorMessage),
	}
	if out.Turn != nil && out.Turn.Evaluation != nil {
		e := out.Turn.Evaluation
		resp.LastEvaluation = &models.EvaluationSummary{
			Score:      e.Score,
			Strengths:  e.Strengths,
			Weaknesses: e.Weaknesses,
		}
	}
	if st.Status == models.StatusCompleted {
		resp.FinalReport = st.FinalReport
	}
	return resp
}

func statusResponse(entry *cache.Entry, totalQuestions int) *models.SessionStatusResponse {
	st := entry.State
	status := string(st.Status)
	if entry.AwaitingFollowUp && !st.Status.IsTerminal() {
		status = StatusAwaitingFollowUp
	}

	resp := &models.SessionStatusResponse{
		SessionID:         st.ID,
		Status:            status,
		CurrentQuestion:   activeQuestion(st),
		QuestionNumber:    st.CurrentQuestionIndex + 1,
		TotalQuestions:    totalQuestions,
		QuestionsAnswered: len(st.Turns),
		IsFollowUp:        st.IsFollowUp && !st.Status.IsTerminal(),
		CandidateName:     optional(st.CandidateName()),
		InterviewType:     st.InterviewType,
		Difficulty:        st.Difficulty,
		ErrorMessage:      optional(st.ErrorMessage),
	}
	if r := st.FinalReport; r != nil {
		score, grade := r.OverallScore, r.OverallGrade
		resp.OverallScore = &score
		resp.OverallGrade = &grade
	}
	return resp
}

func sessionSummary(row *models.InterviewSession) models.SessionSummary {
	summary := models.SessionSummary{
		SessionID:     row.ID,
		InterviewType: row.InterviewType,
		Difficulty:    row.Difficulty,
		Status:        row.Status,
		OverallScore:  row.OverallScore,
		OverallGrade:  row.OverallGrade,
		CreatedAt:     row.CreatedAt.Format(time.RFC3339),
	}
	if row.CandidateProfile != nil {
		summary.CandidateName = optional(row.CandidateProfile.CandidateName)
	}
	if row.CompletedAt != nil {
		completed := row.CompletedAt.Format(time.RFC3339)
		summary.CompletedAt = &completed
	}
	return summary
}
