package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-simulator/internal/models"
)

var ErrSessionNotFound = errors.New("interview session not found")

type SessionRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	FindByID(ctx context.Context, id string) (*models.InterviewSession, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus, errorMsg string) error
	UpdateProgress(ctx context.Context, id string, progress *SessionProgress) error
	SaveTurn(ctx context.Context, turn *models.SessionTurn) error
	SaveReport(ctx context.Context, id string, report *models.FinalReport) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]models.InterviewSession, int64, error)
	DeleteExpired(ctx context.Context, policy RetentionPolicy) (*CleanupResult, error)
}

// SessionProgress carries the setup and question fields that change as the
// interview advances.
type SessionProgress struct {
	Status           models.SessionStatus
	CandidateProfile *models.CandidateProfile
	InterviewPlan    *models.InterviewPlan
	CurrentQuestion  *string
	ErrorMessage     *string
}

// RetentionPolicy gives the age cutoffs per session category.
type RetentionPolicy struct {
	CompletedBefore time.Time
	ErrorBefore     time.Time
	AbandonedBefore time.Time
}

type CleanupResult struct {
	Completed int64
	Error     int64
	Abandoned int64
	// IDs of every removed session, for cache invalidation.
	IDs []string
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Preload("Report").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}
	if status == models.StatusError {
		updates["completed_at"] = time.Now()
	}

	return r.update(ctx, id, updates)
}

func (r *sessionRepository) UpdateProgress(ctx context.Context, id string, p *SessionProgress) error {
	row := &models.InterviewSession{
		Status:           p.Status,
		CandidateProfile: p.CandidateProfile,
		InterviewPlan:    p.InterviewPlan,
		ErrorMessage:     p.ErrorMessage,
	}
	columns := []string{"status", "updated_at"}

	// JSON columns go through a struct update so the serializer applies.
	if p.CandidateProfile != nil {
		columns = append(columns, "candidate_profile")
	}
	if p.InterviewPlan != nil {
		columns = append(columns, "interview_plan")
	}
	if p.CurrentQuestion != nil {
		row.CurrentQuestion = *p.CurrentQuestion
		columns = append(columns, "current_question")
	}
	if p.ErrorMessage != nil {
		columns = append(columns, "error_message")
	}
	if p.Status == models.StatusError {
		now := time.Now()
		row.CompletedAt = &now
		columns = append(columns, "completed_at")
	}

	result := r.db.WithContext(ctx).Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Select(columns).
		Updates(row)

	if result.Error != nil {
		return fmt.Errorf("failed to update session progress: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// SaveTurn writes the turn, replacing an earlier write of the same question.
func (r *sessionRepository) SaveTurn(ctx context.Context, turn *models.SessionTurn) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "question_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"question", "answer", "follow_up_question", "follow_up_answer",
			"score", "strengths", "weaknesses", "notes",
		}),
	}).Create(turn).Error
	if err != nil {
		return fmt.Errorf("failed to save turn: %w", err)
	}
	return nil
}

// SaveReport stores the report and marks the session completed in one
// transaction.
func (r *sessionRepository) SaveReport(ctx context.Context, id string, report *models.FinalReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &models.CoachingReport{SessionID: id, ReportData: *report}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"report_data"}),
		}).Create(row).Error
		if err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.InterviewSession{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":        models.StatusCompleted,
				"overall_score": report.OverallScore,
				"overall_grade": report.OverallGrade,
				"completed_at":  now,
				"updated_at":    now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, []string{id}); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.InterviewSession{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

// List returns a page of sessions, newest first.
func (r *sessionRepository) List(ctx context.Context, page, pageSize int) ([]models.InterviewSession, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InterviewSession{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	var sessions []models.InterviewSession
	err := r.db.WithContext(ctx).
		Omit("resume_text", "job_description").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, total, nil
}

// DeleteExpired removes completed, failed and abandoned sessions older than
// their respective cutoffs.
func (r *sessionRepository) DeleteExpired(ctx context.Context, policy RetentionPolicy) (*CleanupResult, error) {
	result := &CleanupResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := []struct {
			count *int64
			scope func(*gorm.DB) *gorm.DB
		}{
			{&result.Completed, func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ? AND created_at < ?", models.StatusCompleted, policy.CompletedBefore)
			}},
			{&result.Error, func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ? AND created_at < ?", models.StatusError, policy.ErrorBefore)
			}},
			{&result.Abandoned, func(db *gorm.DB) *gorm.DB {
				return db.Where("status NOT IN ? AND created_at < ?",
					[]models.SessionStatus{models.StatusCompleted, models.StatusError}, policy.AbandonedBefore)
			}},
		}

		for _, c := range categories {
			var ids []string
			if err := tx.Model(&models.InterviewSession{}).Scopes(c.scope).Pluck("id", &ids).Error; err != nil {
				return fmt.Errorf("failed to find expired sessions: %w", err)
			}
			if len(ids) == 0 {
				continue
			}
			if err := deleteChildren(tx, ids); err != nil {
				return err
			}
			res := tx.Where("id IN ?", ids).Delete(&models.InterviewSession{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete expired sessions: %w", res.Error)
			}
			*c.count = res.RowsAffected
			result.IDs = append(result.IDs, ids...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func deleteChildren(tx *gorm.DB, ids []string) error {
	if err := tx.Where("session_id IN ?", ids).Delete(&models.SessionTurn{}).Error; err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	if err := tx.Where("session_id IN ?", ids).Delete(&models.CoachingReport{}).Error; err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
