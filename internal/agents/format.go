package agents

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-simulator/internal/models"
)

func formatProfile(p *models.CandidateProfile) string {
	if p == nil {
		return "No profile available."
	}
	return fmt.Sprintf("Name: %s\nSkills: %s\nExperience: %s\nStrengths: %s\nGaps: %s\nEducation: %s\nMatch: %s",
		p.CandidateName,
		strings.Join(p.Skills, ", "),
		p.ExperienceYears,
		strings.Join(p.Strengths, ", "),
		strings.Join(p.Gaps, ", "),
		p.Education,
		p.OverallMatch,
	)
}

// formatHistory renders earlier turns for the interviewer. Answers are
// candidate text and go through the sanitizer.
func (a *Agents) formatHistory(turns []models.TurnRecord) string {
	if len(turns) == 0 {
		return "No previous questions yet."
	}

	entries := make([]string, 0, len(turns))
	for _, t := range turns {
		var b strings.Builder
		fmt.Fprintf(&b, "Q%d: %s\nA: %s", t.QuestionNumber, t.Question, a.clean(t.Answer))
		if t.HasFollowUp() {
			fmt.Fprintf(&b, "\nFollow-up Q: %s\nFollow-up A: %s", t.FollowUpQuestion, orNoAnswer(a.clean(t.FollowUpAnswer)))
		}
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n\n")
}

// formatTranscript renders every turn with its evaluation for the coach.
func (a *Agents) formatTranscript(turns []models.TurnRecord) string {
	if len(turns) == 0 {
		return "No interview data available."
	}

	entries := make([]string, 0, len(turns))
	for _, t := range turns {
		var b strings.Builder
		fmt.Fprintf(&b, "--- Question %d ---\nQ: %s\nA: %s\n", t.QuestionNumber, t.Question, a.clean(t.Answer))
		if t.HasFollowUp() {
			fmt.Fprintf(&b, "Follow-up Q: %s\nFollow-up A: %s\n", t.FollowUpQuestion, orNoAnswer(a.clean(t.FollowUpAnswer)))
		}
		if e := t.Evaluation; e != nil {
			fmt.Fprintf(&b, "Score: %d/10\nStrengths: %s\nWeaknesses: %s\n",
				e.Score, strings.Join(e.Strengths, ", "), strings.Join(e.Weaknesses, ", "))
		} else {
			b.WriteString("Score: Not evaluated\n")
		}
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n\n")
}

func orNoAnswer(s string) string {
	if s == "" {
		return "No answer"
	}
	return s
}

// cleanQuestion strips whitespace and wrapping quotes from generated questions.
func cleanQuestion(text string) string {
	q := strings.TrimSpace(text)
	q = strings.Trim(q, `"`)
	q = strings.Trim(q, "'")
	return strings.TrimSpace(q)
}
