package models

import (
	"time"
)

// InterviewSession is the durable row for one interview.
type InterviewSession struct {
	ID               string            `gorm:"type:varchar(64);primaryKey" json:"id"`
	ResumeText       string            `gorm:"type:text;not null" json:"-"`
	JobDescription   string            `gorm:"type:text;not null" json:"-"`
	InterviewType    InterviewType     `gorm:"type:varchar(20);not null" json:"interview_type"`
	Difficulty       Difficulty        `gorm:"type:varchar(20);not null" json:"difficulty"`
	Language         Language          `gorm:"type:varchar(5);not null;default:'en'" json:"language"`
	CandidateProfile *CandidateProfile `gorm:"type:text;serializer:json" json:"candidate_profile,omitempty"`
	InterviewPlan    *InterviewPlan    `gorm:"type:text;serializer:json" json:"interview_plan,omitempty"`
	CurrentQuestion  string            `gorm:"type:text" json:"current_question"`
	Status           SessionStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ErrorMessage     *string           `gorm:"type:text" json:"error_message,omitempty"`
	OverallScore     *float64          `json:"overall_score,omitempty"`
	OverallGrade     *Grade            `gorm:"type:varchar(20)" json:"overall_grade,omitempty"`
	CreatedAt        time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`

	// Relations
	Turns  []SessionTurn   `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Report *CoachingReport `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// SessionTurn stores one TurnRecord.
type SessionTurn struct {
	ID               uint      `gorm:"primaryKey"`
	SessionID        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_turn_session_number"`
	QuestionNumber   int       `gorm:"not null;uniqueIndex:idx_turn_session_number"`
	Question         string    `gorm:"type:text;not null"`
	Answer           string    `gorm:"type:text;not null"`
	FollowUpQuestion *string   `gorm:"type:text"`
	FollowUpAnswer   *string   `gorm:"type:text"`
	Score            *int
	Strengths        []string  `gorm:"type:text;serializer:json"`
	Weaknesses       []string  `gorm:"type:text;serializer:json"`
	Notes            *string   `gorm:"type:text"`
	CreatedAt        time.Time
}

func (SessionTurn) TableName() string {
	return "session_turns"
}

// CoachingReport stores the final report of a completed session.
type CoachingReport struct {
	ID         uint        `gorm:"primaryKey"`
	SessionID  string      `gorm:"type:varchar(64);not null;uniqueIndex"`
	ReportData FinalReport `gorm:"type:text;serializer:json"`
	CreatedAt  time.Time
}

func (CoachingReport) TableName() string {
	return "coaching_reports"
}

// NewSessionTurn converts a turn for storage.
func NewSessionTurn(sessionID string, t TurnRecord) *SessionTurn {
	row := &SessionTurn{
		SessionID:      sessionID,
		QuestionNumber: t.QuestionNumber,
		Question:       t.Question,
		Answer:         t.Answer,
	}
	if t.FollowUpQuestion != "" {
		row.FollowUpQuestion = &t.FollowUpQuestion
		row.FollowUpAnswer = &t.FollowUpAnswer
	}
	if e := t.Evaluation; e != nil {
		score := e.Score
		notes := e.Notes
		row.Score = &score
		row.Strengths = e.Strengths
		row.Weaknesses = e.Weaknesses
		row.Notes = &notes
	}
	return row
}

// Record converts a stored turn back to its working form.
func (r SessionTurn) Record() TurnRecord {
	t := TurnRecord{
		QuestionNumber: r.QuestionNumber,
		Question:       r.Question,
		Answer:         r.Answer,
	}
	if r.FollowUpQuestion != nil {
		t.FollowUpQuestion = *r.FollowUpQuestion
	}
	if r.FollowUpAnswer != nil {
		t.FollowUpAnswer = *r.FollowUpAnswer
	}
	if r.Score != nil {
		e := &QuestionEvaluation{
			Score:      *r.Score,
			Strengths:  r.Strengths,
			Weaknesses: r.Weaknesses,
		}
		if e.Strengths == nil {
			e.Strengths = []string{}
		}
		if e.Weaknesses == nil {
			e.Weaknesses = []string{}
		}
		if r.Notes != nil {
			e.Notes = *r.Notes
		}
		t.Evaluation = e
	}
	return t
}

// NewInterviewSession builds the initial row for a freshly started session.
func NewInterviewSession(st *SessionState) *InterviewSession {
	return &InterviewSession{
		ID:             st.ID,
		ResumeText:     st.ResumeText,
		JobDescription: st.JobDescription,
		InterviewType:  st.InterviewType,
		Difficulty:     st.Difficulty,
		Language:       st.Language,
		Status:         st.Status,
	}
}

// State rebuilds the working state from the durable row. maxQuestions bounds
// the reconstructed question index.
func (s *InterviewSession) State(maxQuestions int) *SessionState {
	st := NewSessionState(s.ID, s.ResumeText, s.JobDescription, s.InterviewType, s.Difficulty, s.Language)
	st.CandidateProfile = s.CandidateProfile
	st.InterviewPlan = s.InterviewPlan
	st.CurrentQuestion = s.CurrentQuestion
	st.Status = s.Status
	if s.ErrorMessage != nil {
		st.ErrorMessage = *s.ErrorMessage
	}

	for _, row := range s.Turns {
		st.Turns = append(st.Turns, row.Record())
	}

	index := len(st.Turns)
	if s.Status == StatusCompleted && index > 0 {
		index--
	}
	if maxQuestions > 0 && index > maxQuestions-1 {
		index = maxQuestions - 1
	}
	st.CurrentQuestionIndex = index

	if s.Report != nil {
		report := s.Report.ReportData
		st.FinalReport = &report
	}
	return st
}
