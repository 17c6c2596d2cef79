package agents

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/models"
	"alfredoptarigan/interview-simulator/internal/services"
)

const (
	minScore = 1
	maxScore = 10
)

// evaluationResult tolerates fractional scores from the model. Score is
// required.
type evaluationResult struct {
	Score      *float64 `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Notes      string   `json:"notes"`
}

func defaultEvaluation() *models.QuestionEvaluation {
	return &models.QuestionEvaluation{
		Score:      5,
		Strengths:  []string{"Evaluation could not be completed automatically"},
		Weaknesses: []string{"Please review this answer manually"},
		Notes:      "Default evaluation assigned due to processing error",
	}
}

// EvaluateAnswer scores the most recent turn. A failed evaluation never
// fails the interview; the turn receives the neutral default instead.
func (a *Agents) EvaluateAnswer(ctx context.Context, st *models.SessionState) {
	st.Status = models.StatusEvaluating

	turn := st.LastTurn()
	if turn == nil {
		st.Fail("No answers available for evaluation")
		return
	}
	log := a.log.With(zap.String("session_id", st.ID), zap.Int("question", turn.QuestionNumber))

	prompt := buildEvaluationPrompt(st, *turn,
		a.clean(turn.Answer), a.clean(turn.FollowUpAnswer), a.rubricContext(ctx, st, turn.Question))

	var result evaluationResult
	err := a.generateJSON(ctx, prompt, &result)
	if err == nil && result.Score == nil {
		err = fmt.Errorf("%w: evaluation has no score", services.ErrParseFailed)
	}
	if err != nil {
		log.Warn("⚠️ Evaluation failed, assigning default", logger.ErrorKind(err))
		turn.Evaluation = defaultEvaluation()
		return
	}

	turn.Evaluation = &models.QuestionEvaluation{
		Score:      clampScore(*result.Score),
		Strengths:  nonNil(result.Strengths),
		Weaknesses: nonNil(result.Weaknesses),
		Notes:      result.Notes,
	}

	log.Info("✅ Answer evaluated", zap.Int("score", turn.Evaluation.Score))
}

// rubricContext returns retrieved reference material, or "" when retrieval
// is disabled or fails.
func (a *Agents) rubricContext(ctx context.Context, st *models.SessionState, question string) string {
	if a.retriever == nil {
		return ""
	}
	text, err := a.retriever.RetrieveRubric(ctx, string(st.InterviewType), question)
	if err != nil {
		a.log.Warn("Rubric retrieval failed", zap.String("session_id", st.ID), logger.ErrorKind(err))
		return ""
	}
	return text
}

func clampScore(v float64) int {
	s := int(math.Round(v))
	if s < minScore {
		return minScore
	}
	if s > maxScore {
		return maxScore
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
