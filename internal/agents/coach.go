package agents

import (
	"context"
	"math"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/models"
)

// maxScoreDeviation is how far a reported overall score may drift from the
// mean of the turn scores before it is replaced by the mean.
const maxScoreDeviation = 1.0

// SynthesizeReport writes the final coaching report. Any generation or
// parse failure yields a report computed from the turn scores, so the
// session always completes once at least one turn exists.
func (a *Agents) SynthesizeReport(ctx context.Context, st *models.SessionState) {
	st.Status = models.StatusCoaching
	log := a.log.With(zap.String("session_id", st.ID))

	if len(st.Turns) == 0 {
		st.Fail("No interview data available for coaching")
		return
	}

	prompt := buildCoachPrompt(st, formatProfile(st.CandidateProfile), a.formatTranscript(st.Turns))

	var report models.FinalReport
	if err := a.generateJSON(ctx, prompt, &report); err != nil {
		log.Warn("⚠️ Coaching failed, assigning default report", logger.ErrorKind(err))
		st.FinalReport = DefaultReport(st.Scores())
		st.Status = models.StatusCompleted
		return
	}
	if report.OverallScore < minScore || report.OverallScore > maxScore {
		log.Warn("⚠️ Coaching score out of range, assigning default report",
			zap.Float64("reported", report.OverallScore))
		st.FinalReport = DefaultReport(st.Scores())
		st.Status = models.StatusCompleted
		return
	}

	normalizeReport(&report, st.Scores(), len(st.Turns), log)

	st.FinalReport = &report
	st.Status = models.StatusCompleted

	log.Info("✅ Coaching report generated",
		zap.Float64("overall_score", report.OverallScore),
		zap.String("grade", string(report.OverallGrade)))
}

// normalizeReport enforces the score-correction rule and fills in fields the
// model left out.
func normalizeReport(r *models.FinalReport, scores []int, turns int, log *zap.Logger) {
	r.OverallScore = models.RoundScore(r.OverallScore)

	if mean, ok := models.MeanScore(scores); ok {
		avg := models.RoundScore(mean)
		if math.Abs(r.OverallScore-avg) > maxScoreDeviation {
			log.Warn("Coach score deviates from turn average, correcting",
				zap.Float64("reported", r.OverallScore), zap.Float64("average", avg))
			r.OverallScore = avg
			r.OverallGrade = models.GradeForScore(avg)
		}
	}
	if !r.OverallGrade.Valid() {
		r.OverallGrade = models.GradeForScore(r.OverallScore)
	}

	if r.PerQuestionFeedback == nil {
		r.PerQuestionFeedback = []models.PerQuestionFeedback{}
	}
	if len(r.PerQuestionFeedback) > turns {
		r.PerQuestionFeedback = r.PerQuestionFeedback[:turns]
	}
	r.TopStrengths = nonNil(r.TopStrengths)
	r.AreasToImprove = nonNil(r.AreasToImprove)
	r.ActionItems = nonNil(r.ActionItems)
}

// DefaultReport derives a report from the turn scores alone.
func DefaultReport(scores []int) *models.FinalReport {
	avg := 5.0
	if mean, ok := models.MeanScore(scores); ok {
		avg = models.RoundScore(mean)
	}

	return &models.FinalReport{
		OverallScore:        avg,
		OverallGrade:        models.GradeForScore(avg),
		Summary:             "Coaching report could not be fully generated. Scores are based on individual evaluations.",
		PerQuestionFeedback: []models.PerQuestionFeedback{},
		TopStrengths:        []string{"Review individual question evaluations for details"},
		AreasToImprove:      []string{"Review individual question evaluations for details"},
		ActionItems:         []string{"Review each question and answer manually for improvement areas"},
		ReadyForRole:        avg >= 6.0,
		ReadyExplanation:    "Assessment based on average score from individual evaluations.",
	}
}
