package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-simulator/internal/cache"
	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/metrics"
	"alfredoptarigan/interview-simulator/internal/models"
	"alfredoptarigan/interview-simulator/internal/repositories"
	"alfredoptarigan/interview-simulator/internal/services"
)

const (
	// StatusAwaitingFollowUp is the display status while a follow-up is open.
	StatusAwaitingFollowUp = "awaiting_follow_up"

	DefaultPageSize = 10
	MaxPageSize     = 50

	setupAbortedMessage = "Interview setup could not be saved"

	errorRetentionDays     = 7
	abandonedRetentionDays = 3
)

type Options struct {
	MaxQuestions int
	SessionTTL   time.Duration
}

// Service runs interviews end to end: it loads sessions, drives the machine
// and persists every step.
type Service struct {
	repo         repositories.SessionRepository
	store        *SessionStore
	machine      *Machine
	locks        *sessionLocks
	metrics      *metrics.Metrics
	maxQuestions int
	log          *zap.Logger
}

func NewService(repo repositories.SessionRepository, c cache.SessionCache, a TurnAgents, opts Options, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		store:        NewSessionStore(repo, c, opts.SessionTTL, opts.MaxQuestions, log.Named("store")),
		machine:      NewMachine(a, opts.MaxQuestions),
		locks:        newSessionLocks(),
		metrics:      m,
		maxQuestions: opts.MaxQuestions,
		log:          log,
	}
}

// Start creates a session and runs the setup pipeline. A setup failure is
// not an error: the response carries status "error" and the message.
func (s *Service) Start(ctx context.Context, req *models.StartInterviewRequest) (*models.StartInterviewResponse, error) {
	req.ResumeText = services.NormalizeInput(req.ResumeText)
	req.JobDescription = services.NormalizeInput(req.JobDescription)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	st := models.NewSessionState(uuid.NewString(), req.ResumeText, req.JobDescription,
		req.InterviewType, req.Difficulty, req.Language)
	if err := s.repo.Create(ctx, models.NewInterviewSession(st)); err != nil {
		return nil, err
	}
	s.metrics.SessionStarted()

	log := s.log.With(zap.String("session_id", st.ID))
	log.Info("🚀 Interview started",
		zap.String("interview_type", string(st.InterviewType)),
		zap.String("difficulty", string(st.Difficulty)))

	// The pipeline outlives a disconnecting client.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	_, err := s.machine.RunSetup(ctx, st, s.hooks())
	s.metrics.ObservePipeline("setup", start)
	if err != nil {
		log.Error("❌ Setup pipeline aborted", logger.ErrorKind(err))
		s.store.Invalidate(ctx, st.ID)
		if uerr := s.repo.UpdateStatus(ctx, st.ID, models.StatusError, setupAbortedMessage); uerr != nil {
			log.Warn("⚠️ Failed to mark aborted session", logger.ErrorKind(uerr))
		}
		s.metrics.SessionFinished(string(models.StatusError))
		return nil, err
	}

	s.store.Save(ctx, st, nil)
	if st.Failed() {
		s.metrics.SessionFinished(string(st.Status))
		log.Warn("⚠️ Interview setup failed", zap.String("reason", st.ErrorMessage))
	} else {
		log.Info("✅ First question ready", zap.Int("topics", len(st.InterviewPlan.Topics)))
	}

	return startResponse(st, s.maxQuestions), nil
}

// SubmitAnswer runs the answer pipeline for one answer. Submissions for the
// same session are serialized.
func (s *Service) SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	answer := services.NormalizeInput(req.Answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is empty", ErrInvalidInput)
	}

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	entry, err := s.store.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	st := entry.State
	if st.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: interview is already %s", ErrStateConflict, st.Status)
	}

	ctx = context.WithoutCancel(ctx)
	log := s.log.With(zap.String("session_id", st.ID), zap.Int("question", st.CurrentQuestionIndex+1))

	start := time.Now()
	out, err := s.machine.ProcessAnswer(ctx, st, entry.Pending(), answer, s.hooks())
	s.metrics.ObservePipeline("answer", start)
	if err != nil {
		// The database is authoritative; make the next read rebuild from it.
		s.store.Invalidate(ctx, st.ID)
		if !errors.Is(err, ErrStateConflict) {
			log.Error("❌ Answer pipeline aborted", logger.ErrorKind(err))
		}
		return nil, err
	}

	s.store.Save(ctx, st, out.Pending)
	if st.Status.IsTerminal() {
		s.metrics.SessionFinished(string(st.Status))
	}
	log.Info("✅ Answer processed", zap.String("phase", string(out.Phase)), zap.String("status", string(st.Status)))

	return answerResponse(st, out, s.maxQuestions), nil
}

// Status returns a read-only snapshot of the session.
func (s *Service) Status(ctx context.Context, id string) (*models.SessionStatusResponse, error) {
	entry, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return statusResponse(entry, s.maxQuestions), nil
}

// Report returns the stored final report, read from the database only.
func (s *Service) Report(ctx context.Context, id string) (*models.ReportResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	resp := &models.ReportResponse{
		SessionID:    row.ID,
		Status:       string(row.Status),
		ErrorMessage: row.ErrorMessage,
	}
	if row.Report == nil {
		msg := "Interview not yet completed"
		resp.Message = &msg
		return resp, nil
	}
	report := row.Report.ReportData
	resp.Report = &report
	return resp, nil
}

// History lists sessions newest first. page starts at 1; pageSize is
// clamped to [1, MaxPageSize].
func (s *Service) History(ctx context.Context, page, pageSize int) (*models.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	rows, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SessionSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, sessionSummary(&rows[i]))
	}

	return &models.HistoryResponse{
		Sessions:   summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// Delete removes the session, its turns and report, and its cache entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.store.Invalidate(ctx, id)

	s.log.Info("🗑️ Session deleted", zap.String("session_id", id))
	return nil
}

// Cleanup purges completed sessions older than olderThanDays, failed
// sessions older than a week and unfinished sessions older than three days.
func (s *Service) Cleanup(ctx context.Context, olderThanDays int) (*models.CleanupResponse, error) {
	if olderThanDays < 1 {
		return nil, fmt.Errorf("%w: older_than_days must be at least 1", ErrInvalidInput)
	}

	now := time.Now()
	day := 24 * time.Hour
	result, err := s.repo.DeleteExpired(ctx, repositories.RetentionPolicy{
		CompletedBefore: now.Add(-time.Duration(olderThanDays) * day),
		ErrorBefore:     now.Add(-errorRetentionDays * day),
		AbandonedBefore: now.Add(-abandonedRetentionDays * day),
	})
	if err != nil {
		return nil, err
	}
	s.store.Invalidate(ctx, result.IDs...)

	resp := &models.CleanupResponse{
		Completed: result.Completed,
		Error:     result.Error,
		Abandoned: result.Abandoned,
		Total:     result.Completed + result.Error + result.Abandoned,
	}
	s.log.Info("🧹 Retention sweep finished",
		zap.Int64("completed", resp.Completed),
		zap.Int64("error", resp.Error),
		zap.Int64("abandoned", resp.Abandoned))
	return resp, nil
}

func (s *Service) hooks() Hooks {
	return Hooks{
		Checkpoint:    s.checkpoint,
		TurnEvaluated: s.saveTurn,
	}
}

// checkpoint persists the durable part of st and refreshes the cache.
func (s *Service) checkpoint(ctx context.Context, st *models.SessionState) error {
	if st.Status == models.StatusCompleted && st.FinalReport != nil {
		if err := s.repo.SaveReport(ctx, st.ID, st.FinalReport); err != nil {
			return err
		}
		s.store.Invalidate(ctx, st.ID)
		return nil
	}

	progress := &repositories.SessionProgress{
		Status:           st.Status,
		CandidateProfile: st.CandidateProfile,
		InterviewPlan:    st.InterviewPlan,
	}
	// Follow-up questions live in the cache only.
	if !st.IsFollowUp && st.CurrentQuestion != "" {
		q := st.CurrentQuestion
		progress.CurrentQuestion = &q
	}
	if st.ErrorMessage != "" {
		msg := st.ErrorMessage
		progress.ErrorMessage = &msg
	}
	if err := s.repo.UpdateProgress(ctx, st.ID, progress); err != nil {
		return err
	}

	s.store.Save(ctx, st, nil)
	return nil
}

func (s *Service) saveTurn(ctx context.Context, st *models.SessionState, turn models.TurnRecord) error {
	return s.repo.SaveTurn(ctx, models.NewSessionTurn(st.ID, turn))
}

func mapRepoError(err error) error {
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}
