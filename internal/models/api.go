package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type StartInterviewRequest struct {
	ResumeText     string        `json:"resume_text" form:"resume_text" validate:"required,min=50,max=50000"`
	JobDescription string        `json:"job_description" form:"job_description" validate:"required,min=20,max=20000"`
	InterviewType  InterviewType `json:"interview_type" form:"interview_type" validate:"required,oneof=behavioral technical"`
	Difficulty     Difficulty    `json:"difficulty" form:"difficulty" validate:"required,oneof=junior mid senior"`
	Language       Language      `json:"language" form:"language" validate:"omitempty,oneof=en id"`
}

func (r *StartInterviewRequest) Validate() error {
	return validate.Struct(r)
}

type SubmitAnswerRequest struct {
	SessionID string `json:"session_id" validate:"required,max=64"`
	Answer    string `json:"answer" validate:"required,min=1,max=10000"`
}

func (r *SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}

type StartInterviewResponse struct {
	SessionID       string        `json:"session_id"`
	Status          string        `json:"status"`
	CurrentQuestion *string       `json:"current_question"`
	QuestionNumber  int           `json:"question_number"`
	TotalQuestions  int           `json:"total_questions"`
	CandidateName   *string       `json:"candidate_name"`
	InterviewType   InterviewType `json:"interview_type"`
	Difficulty      Difficulty    `json:"difficulty"`
	ErrorMessage    *string       `json:"error_message"`
}

// EvaluationSummary is the slice of an evaluation shown right after a turn.
type EvaluationSummary struct {
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type SubmitAnswerResponse struct {
	SessionID       string             `json:"session_id"`
	Status          string             `json:"status"`
	CurrentQuestion *string            `json:"current_question"`
	QuestionNumber  int                `json:"question_number"`
	IsFollowUp      bool               `json:"is_follow_up"`
	TotalQuestions  int                `json:"total_questions"`
	LastEvaluation  *EvaluationSummary `json:"last_evaluation"`
	FinalReport     *FinalReport       `json:"final_report"`
	ErrorMessage    *string            `json:"error_message"`
}

type SessionStatusResponse struct {
	SessionID         string        `json:"session_id"`
	Status            string        `json:"status"`
	CurrentQuestion   *string       `json:"current_question"`
	QuestionNumber    int           `json:"question_number"`
	TotalQuestions    int           `json:"total_questions"`
	QuestionsAnswered int           `json:"questions_answered"`
	IsFollowUp        bool          `json:"is_follow_up"`
	CandidateName     *string       `json:"candidate_name"`
	InterviewType     InterviewType `json:"interview_type"`
	Difficulty        Difficulty    `json:"difficulty"`
	OverallScore      *float64      `json:"overall_score"`
	OverallGrade      *Grade        `json:"overall_grade"`
	ErrorMessage      *string       `json:"error_message"`
}

type SessionSummary struct {
	SessionID     string        `json:"session_id"`
	CandidateName *string       `json:"candidate_name"`
	InterviewType InterviewType `json:"interview_type"`
	Difficulty    Difficulty    `json:"difficulty"`
	Status        SessionStatus `json:"status"`
	OverallScore  *float64      `json:"overall_score"`
	OverallGrade  *Grade        `json:"overall_grade"`
	CreatedAt     string        `json:"created_at"`
	CompletedAt   *string       `json:"completed_at"`
}

type HistoryResponse struct {
	Sessions   []SessionSummary `json:"sessions"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type ReportResponse struct {
	SessionID    string       `json:"session_id"`
	Status       string       `json:"status"`
	Report       *FinalReport `json:"report"`
	Message      *string      `json:"message,omitempty"`
	ErrorMessage *string      `json:"error_message"`
}

type CleanupResponse struct {
	Completed int64 `json:"completed"`
	Error     int64 `json:"error"`
	Abandoned int64 `json:"abandoned"`
	Total     int64 `json:"total"`
}
