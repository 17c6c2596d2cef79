package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/models"
)

// AnalyzeProfile extracts the candidate profile from the resume and job
// description. There is no default profile: any failure ends the session.
func (a *Agents) AnalyzeProfile(ctx context.Context, st *models.SessionState) {
	st.Status = models.StatusAnalyzing
	log := a.log.With(zap.String("session_id", st.ID))
	log.Info("🔄 Analyzing resume")

	prompt := buildProfilePrompt(a.clean(st.ResumeText), a.clean(st.JobDescription))

	var profile models.CandidateProfile
	if err := a.generateJSON(ctx, prompt, &profile); err != nil {
		log.Error("❌ Resume analysis failed", logger.ErrorKind(err))
		st.Fail("Resume analysis failed: " + failureReason(err))
		return
	}

	profile.Normalize()
	st.CandidateProfile = &profile

	log.Info("✅ Resume analyzed", zap.String("match", string(profile.OverallMatch)))
}

// PlanTopics asks for an ordered topic list, truncated to the configured
// question count. Fewer topics are accepted; question generation clamps.
func (a *Agents) PlanTopics(ctx context.Context, st *models.SessionState) {
	st.Status = models.StatusPlanning
	log := a.log.With(zap.String("session_id", st.ID))

	if st.CandidateProfile == nil {
		st.Fail("Interview planning failed: no candidate profile")
		return
	}

	prompt := buildPlanPrompt(formatProfile(st.CandidateProfile), st.InterviewType, st.Difficulty, a.maxQuestions)

	var plan models.InterviewPlan
	if err := a.generateJSON(ctx, prompt, &plan); err != nil {
		log.Error("❌ Interview planning failed", logger.ErrorKind(err))
		st.Fail("Interview planning failed: " + failureReason(err))
		return
	}
	plan.Topics = completeTopics(plan.Topics)
	if len(plan.Topics) == 0 {
		st.Fail("Interview planning failed: no topics returned")
		return
	}
	if a.maxQuestions > 0 && len(plan.Topics) > a.maxQuestions {
		plan.Topics = plan.Topics[:a.maxQuestions]
	}

	st.InterviewPlan = &plan
	st.Status = models.StatusInterviewing

	log.Info("✅ Interview planned", zap.Int("topics", len(plan.Topics)))
}

// completeTopics keeps topics that name an area, a focus and a reason.
func completeTopics(topics []models.Topic) []models.Topic {
	kept := topics[:0]
	for _, t := range topics {
		if strings.TrimSpace(t.Area) == "" || strings.TrimSpace(t.Focus) == "" || strings.TrimSpace(t.Why) == "" {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
