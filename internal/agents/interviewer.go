package agents

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/models"
)

const defaultFollowUpReason = "The answer needs more depth or specificity."

// FollowUpDecision is the model's verdict on a main answer.
type FollowUpDecision struct {
	NeedsFollowUp bool   `json:"needs_follow_up"`
	Reason        string `json:"reason"`
}

// GenerateQuestion asks the next main question for the topic at the current
// index and resets the follow-up counters.
func (a *Agents) GenerateQuestion(ctx context.Context, st *models.SessionState) {
	log := a.log.With(zap.String("session_id", st.ID), zap.Int("question", st.CurrentQuestionIndex+1))

	topic, ok := st.InterviewPlan.TopicAt(st.CurrentQuestionIndex)
	if !ok {
		st.Fail("Question generation failed: no interview plan")
		return
	}

	prompt := buildQuestionPrompt(st, formatProfile(st.CandidateProfile), topic, a.formatHistory(st.Turns))

	text, err := a.gen.Invoke(ctx, prompt)
	if err != nil {
		log.Error("❌ Question generation failed", logger.ErrorKind(err))
		st.Fail("Question generation failed: " + failureReason(err))
		return
	}
	question := cleanQuestion(text)
	if question == "" {
		st.Fail("Question generation failed: empty question")
		return
	}

	st.CurrentQuestion = question
	st.IsFollowUp = false
	st.FollowUpCount = 0
	st.Status = models.StatusInterviewing

	log.Debug("Question generated", zap.String("preview", logger.TruncateForLog(question, 80)))
}

// DecideFollowUp reports whether the answer to the current question deserves
// a follow-up. Once the per-question cap is reached the model is not asked.
// Failures resolve to no follow-up.
func (a *Agents) DecideFollowUp(ctx context.Context, st *models.SessionState, answer string) FollowUpDecision {
	if st.FollowUpCount >= a.maxFollowUps {
		return FollowUpDecision{}
	}

	prompt := buildFollowUpDecisionPrompt(st, st.CurrentQuestion, a.clean(answer))

	var decision FollowUpDecision
	if err := a.generateJSON(ctx, prompt, &decision); err != nil {
		a.log.Warn("⚠️ Follow-up decision failed, skipping follow-up",
			zap.String("session_id", st.ID), logger.ErrorKind(err))
		return FollowUpDecision{}
	}
	return decision
}

// GenerateFollowUp replaces the current question with a follow-up probing
// the given answer. On failure the follow-up is cancelled and the current
// question is left untouched.
func (a *Agents) GenerateFollowUp(ctx context.Context, st *models.SessionState, answer, reason string) {
	if reason == "" {
		reason = defaultFollowUpReason
	}

	prompt := buildFollowUpPrompt(st, st.CurrentQuestion, a.clean(answer), reason)

	text, err := a.gen.Invoke(ctx, prompt)
	question := cleanQuestion(text)
	if err != nil || question == "" {
		a.log.Warn("⚠️ Follow-up generation failed, cancelling follow-up",
			zap.String("session_id", st.ID), logger.ErrorKind(err))
		st.IsFollowUp = false
		return
	}

	st.CurrentQuestion = question
	st.IsFollowUp = true
	st.FollowUpCount++
}
