package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-simulator/internal/config"
	"alfredoptarigan/interview-simulator/internal/models"
)

func newTestRepo(t *testing.T) (SessionRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return NewSessionRepository(db), db
}

func seedSession(t *testing.T, repo SessionRepository, id string, status models.SessionStatus) {
	t.Helper()
	st := models.NewSessionState(id, "resume text", "job description", models.InterviewBehavioral, models.DifficultyJunior, models.LanguageEnglish)
	st.Status = status
	require.NoError(t, repo.Create(context.Background(), models.NewInterviewSession(st)))
}

func TestCreateAndFind(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusInitialized)

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.InterviewBehavioral, got.InterviewType)
	assert.Equal(t, "resume text", got.ResumeText)
	assert.Empty(t, got.Turns)
	assert.Nil(t, got.Report)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateProgressStoresJSONColumns(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusAnalyzing)

	question := "Tell me about a time you failed."
	profile := &models.CandidateProfile{CandidateName: "Ana", Skills: []string{"Go"}, OverallMatch: models.MatchStrong}
	plan := &models.InterviewPlan{Topics: []models.Topic{{Area: "Failure", Focus: "learning", Why: "gap"}}}

	require.NoError(t, repo.UpdateProgress(ctx, "s1", &SessionProgress{
		Status:           models.StatusInterviewing,
		CandidateProfile: profile,
		InterviewPlan:    plan,
		CurrentQuestion:  &question,
	}))

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewing, got.Status)
	assert.Equal(t, profile, got.CandidateProfile)
	assert.Equal(t, plan, got.InterviewPlan)
	assert.Equal(t, question, got.CurrentQuestion)
	assert.Nil(t, got.CompletedAt)

	err = repo.UpdateProgress(ctx, "missing", &SessionProgress{Status: models.StatusError})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateStatusError(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusAnalyzing)

	require.NoError(t, repo.UpdateStatus(ctx, "s1", models.StatusError, "Resume analysis failed"))

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "Resume analysis failed", *got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", models.StatusCoaching, ""), ErrSessionNotFound)
}

func TestSaveTurnIsIdempotentPerQuestion(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusInterviewing)

	turn := models.TurnRecord{QuestionNumber: 1, Question: "Q1", Answer: "first"}
	require.NoError(t, repo.SaveTurn(ctx, models.NewSessionTurn("s1", turn)))

	turn.Answer = "second"
	turn.Evaluation = &models.QuestionEvaluation{Score: 6, Strengths: []string{"honest"}, Weaknesses: []string{"vague"}, Notes: "n"}
	require.NoError(t, repo.SaveTurn(ctx, models.NewSessionTurn("s1", turn)))

	require.NoError(t, repo.SaveTurn(ctx, models.NewSessionTurn("s1", models.TurnRecord{QuestionNumber: 2, Question: "Q2", Answer: "a"})))

	var count int64
	require.NoError(t, db.Model(&models.SessionTurn{}).Where("session_id = ?", "s1").Count(&count).Error)
	assert.Equal(t, int64(2), count)

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, turn, got.Turns[0].Record())
	assert.Equal(t, 2, got.Turns[1].QuestionNumber)
}

func TestSaveReportCompletesSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusCoaching)

	report := &models.FinalReport{OverallScore: 7.5, OverallGrade: models.GradeVeryGood, Summary: "Solid", TopStrengths: []string{"clarity"}}
	require.NoError(t, repo.SaveReport(ctx, "s1", report))

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.OverallScore)
	assert.Equal(t, 7.5, *got.OverallScore)
	require.NotNil(t, got.OverallGrade)
	assert.Equal(t, models.GradeVeryGood, *got.OverallGrade)
	require.NotNil(t, got.Report)
	assert.Equal(t, "Solid", got.Report.ReportData.Summary)
	assert.NotNil(t, got.CompletedAt)
}

func TestDeleteRemovesChildren(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	seedSession(t, repo, "s1", models.StatusInterviewing)
	require.NoError(t, repo.SaveTurn(ctx, models.NewSessionTurn("s1", models.TurnRecord{QuestionNumber: 1, Question: "Q", Answer: "A"})))

	require.NoError(t, repo.Delete(ctx, "s1"))

	var turns int64
	require.NoError(t, db.Model(&models.SessionTurn{}).Count(&turns).Error)
	assert.Zero(t, turns)
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), ErrSessionNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		seedSession(t, repo, id, models.StatusInterviewing)
		require.NoError(t, db.Model(&models.InterviewSession{}).Where("id = ?", id).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "s4", page[0].ID)
	assert.Equal(t, "s3", page[1].ID)
	assert.Empty(t, page[0].ResumeText)

	last, _, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "s0", last[0].ID)
}

func TestDeleteExpired(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	aged := func(id string, status models.SessionStatus, age time.Duration) {
		seedSession(t, repo, id, status)
		require.NoError(t, db.Model(&models.InterviewSession{}).Where("id = ?", id).
			UpdateColumn("created_at", now.Add(-age)).Error)
	}
	day := 24 * time.Hour
	aged("old-done", models.StatusCompleted, 40*day)
	aged("new-done", models.StatusCompleted, 5*day)
	aged("old-err", models.StatusError, 8*day)
	aged("new-err", models.StatusError, 2*day)
	aged("stale", models.StatusInterviewing, 4*day)
	aged("live", models.StatusInterviewing, time.Hour)

	require.NoError(t, repo.SaveTurn(ctx, models.NewSessionTurn("stale", models.TurnRecord{QuestionNumber: 1, Question: "Q", Answer: "A"})))

	res, err := repo.DeleteExpired(ctx, RetentionPolicy{
		CompletedBefore: now.Add(-30 * day),
		ErrorBefore:     now.Add(-7 * day),
		AbandonedBefore: now.Add(-3 * day),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Completed)
	assert.Equal(t, int64(1), res.Error)
	assert.Equal(t, int64(1), res.Abandoned)
	assert.ElementsMatch(t, []string{"old-done", "old-err", "stale"}, res.IDs)

	var remaining []string
	require.NoError(t, db.Model(&models.InterviewSession{}).Order("id").Pluck("id", &remaining).Error)
	assert.Equal(t, []string{"live", "new-done", "new-err"}, remaining)
}
