package models

type InterviewType string

const (
	InterviewBehavioral InterviewType = "behavioral"
	InterviewTechnical  InterviewType = "technical"
)

func (t InterviewType) Valid() bool {
	return t == InterviewBehavioral || t == InterviewTechnical
}

type Difficulty string

const (
	DifficultyJunior Difficulty = "junior"
	DifficultyMid    Difficulty = "mid"
	DifficultySenior Difficulty = "senior"
)

type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

type SessionStatus string

const (
	StatusInitialized  SessionStatus = "initialized"
	StatusAnalyzing    SessionStatus = "analyzing"
	StatusPlanning     SessionStatus = "planning"
	StatusInterviewing SessionStatus = "interviewing"
	StatusEvaluating   SessionStatus = "evaluating"
	StatusCoaching     SessionStatus = "coaching"
	StatusCompleted    SessionStatus = "completed"
	StatusError        SessionStatus = "error"
)

// IsTerminal reports whether no further answers are accepted.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// SessionState is the working copy of an interview threaded through every
// agent call. It is serialized as-is into the session cache.
type SessionState struct {
	ID             string        `json:"session_id"`
	ResumeText     string        `json:"resume_text"`
	JobDescription string        `json:"job_description"`
	InterviewType  InterviewType `json:"interview_type"`
	Difficulty     Difficulty    `json:"difficulty"`
	Language       Language      `json:"language"`

	CandidateProfile     *CandidateProfile `json:"candidate_profile,omitempty"`
	InterviewPlan        *InterviewPlan    `json:"interview_plan,omitempty"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	CurrentQuestion      string            `json:"current_question"`
	IsFollowUp           bool              `json:"is_follow_up"`
	FollowUpCount        int               `json:"follow_up_count"`
	Turns                []TurnRecord      `json:"turns"`
	FinalReport          *FinalReport      `json:"final_report,omitempty"`
	Status               SessionStatus     `json:"status"`
	ErrorMessage         string            `json:"error_message,omitempty"`
}

func NewSessionState(id, resumeText, jobDescription string, interviewType InterviewType, difficulty Difficulty, language Language) *SessionState {
	if language == "" {
		language = LanguageEnglish
	}
	return &SessionState{
		ID:             id,
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		InterviewType:  interviewType,
		Difficulty:     difficulty,
		Language:       language,
		Turns:          []TurnRecord{},
		Status:         StatusInitialized,
	}
}

// Fail moves the session into the terminal error status.
func (s *SessionState) Fail(message string) {
	s.Status = StatusError
	s.ErrorMessage = message
}

func (s *SessionState) Failed() bool {
	return s.Status == StatusError
}

func (s *SessionState) CandidateName() string {
	if s.CandidateProfile == nil {
		return ""
	}
	return s.CandidateProfile.CandidateName
}

// LastTurn returns a pointer into Turns, or nil when nothing was answered yet.
func (s *SessionState) LastTurn() *TurnRecord {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

// Scores lists the evaluation scores of all evaluated turns.
func (s *SessionState) Scores() []int {
	scores := make([]int, 0, len(s.Turns))
	for _, t := range s.Turns {
		if t.Evaluation != nil {
			scores = append(scores, t.Evaluation.Score)
		}
	}
	return scores
}

// Clone returns a deep copy so callers can compare before/after snapshots.
func (s *SessionState) Clone() *SessionState {
	c := *s
	if s.CandidateProfile != nil {
		p := *s.CandidateProfile
		c.CandidateProfile = &p
	}
	if s.InterviewPlan != nil {
		p := InterviewPlan{Topics: append([]Topic(nil), s.InterviewPlan.Topics...)}
		c.InterviewPlan = &p
	}
	c.Turns = make([]TurnRecord, len(s.Turns))
	for i, t := range s.Turns {
		c.Turns[i] = t.clone()
	}
	if s.FinalReport != nil {
		r := *s.FinalReport
		c.FinalReport = &r
	}
	return &c
}

// PendingFollowUp holds the main question and answer while a follow-up is
// outstanding. It lives only in the session cache.
type PendingFollowUp struct {
	Question string `json:"pending_main_question"`
	Answer   string `json:"pending_main_answer"`
}
