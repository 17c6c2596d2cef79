// Package interview sequences the turn agents into the setup and answer
// pipelines and keeps sessions in sync between the cache and the database.
package interview

import (
	"context"
	"fmt"

	"alfredoptarigan/interview-simulator/internal/agents"
	"alfredoptarigan/interview-simulator/internal/models"
)

// Phase is a state of the answer pipeline.
type Phase string

const (
	PhaseAwaitingMainAnswer     Phase = "awaiting_main_answer"
	PhaseAwaitingFollowUpAnswer Phase = "awaiting_follow_up_answer"
	PhaseEvaluating             Phase = "evaluating"
	PhaseAdvancing              Phase = "advancing"
	PhaseCoaching               Phase = "coaching"
	PhaseDone                   Phase = "done"
	PhaseError                  Phase = "error"
)

func (p Phase) terminal() bool {
	return p == PhaseDone || p == PhaseError
}

type Event string

const (
	EventFollowUpIssued Event = "follow_up_issued"
	EventTurnRecorded   Event = "turn_recorded"
	EventEvaluated      Event = "evaluated"
	EventLastEvaluated  Event = "last_evaluated"
	EventQuestionReady  Event = "question_ready"
	EventReportReady    Event = "report_ready"
	EventFailed         Event = "failed"
)

var transitions = map[Phase]map[Event]Phase{
	PhaseAwaitingMainAnswer: {
		EventFollowUpIssued: PhaseAwaitingFollowUpAnswer,
		EventTurnRecorded:   PhaseEvaluating,
	},
	PhaseAwaitingFollowUpAnswer: {
		EventTurnRecorded: PhaseEvaluating,
	},
	PhaseEvaluating: {
		EventEvaluated:     PhaseAdvancing,
		EventLastEvaluated: PhaseCoaching,
	},
	PhaseAdvancing: {
		EventQuestionReady: PhaseDone,
	},
	PhaseCoaching: {
		EventReportReady: PhaseDone,
	},
}

// Transition returns the phase reached by applying ev in phase from.
// EventFailed is accepted in every non-terminal phase.
func Transition(from Phase, ev Event) (Phase, error) {
	if ev == EventFailed && !from.terminal() {
		return PhaseError, nil
	}
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("illegal transition %s --%s-->", from, ev)
}

// TurnAgents is the set of agents the machine drives. *agents.Agents
// implements it.
type TurnAgents interface {
	AnalyzeProfile(ctx context.Context, st *models.SessionState)
	PlanTopics(ctx context.Context, st *models.SessionState)
	GenerateQuestion(ctx context.Context, st *models.SessionState)
	DecideFollowUp(ctx context.Context, st *models.SessionState, answer string) agents.FollowUpDecision
	GenerateFollowUp(ctx context.Context, st *models.SessionState, answer, reason string)
	EvaluateAnswer(ctx context.Context, st *models.SessionState)
	SynthesizeReport(ctx context.Context, st *models.SessionState)
}

// Hooks are optional persistence callbacks. An error from a hook aborts the
// pipeline and is returned to the caller.
type Hooks struct {
	// Checkpoint runs after every agent.
	Checkpoint func(ctx context.Context, st *models.SessionState) error
	// TurnEvaluated runs once the new turn has its evaluation, before the
	// next question or the report is generated.
	TurnEvaluated func(ctx context.Context, st *models.SessionState, turn models.TurnRecord) error
}

func (h Hooks) checkpoint(ctx context.Context, st *models.SessionState) error {
	if h.Checkpoint == nil {
		return nil
	}
	return h.Checkpoint(ctx, st)
}

func (h Hooks) turnEvaluated(ctx context.Context, st *models.SessionState, turn models.TurnRecord) error {
	if h.TurnEvaluated == nil {
		return nil
	}
	return h.TurnEvaluated(ctx, st, turn)
}

// Outcome is the result of one answer pipeline run.
type Outcome struct {
	Phase Phase
	// Pending is set when a follow-up was issued and the main exchange is
	// waiting for it.
	Pending *models.PendingFollowUp
	// Turn is the turn recorded by this run, if any.
	Turn *models.TurnRecord
}

type Machine struct {
	agents       TurnAgents
	maxQuestions int
}

func NewMachine(a TurnAgents, maxQuestions int) *Machine {
	return &Machine{agents: a, maxQuestions: maxQuestions}
}

// RunSetup analyzes the profile, plans topics and asks the first question,
// stopping at the first agent that fails.
func (m *Machine) RunSetup(ctx context.Context, st *models.SessionState, hooks Hooks) (Phase, error) {
	steps := []func(context.Context, *models.SessionState){
		m.agents.AnalyzeProfile,
		m.agents.PlanTopics,
		m.agents.GenerateQuestion,
	}

	for _, step := range steps {
		step(ctx, st)
		if err := hooks.checkpoint(ctx, st); err != nil {
			return PhaseError, err
		}
		if st.Failed() {
			return PhaseError, nil
		}
	}
	return PhaseAwaitingMainAnswer, nil
}

// ProcessAnswer runs the answer pipeline for one submission. pending is the
// outstanding follow-up context, or nil when answer is for a main question.
func (m *Machine) ProcessAnswer(ctx context.Context, st *models.SessionState, pending *models.PendingFollowUp, answer string, hooks Hooks) (*Outcome, error) {
	if st.Status.IsTerminal() {
		return nil, ErrStateConflict
	}
	if len(st.Turns) >= m.maxQuestions && st.FinalReport == nil {
		return m.FinishReport(ctx, st, hooks)
	}
	if len(st.Turns) >= m.maxQuestions || st.CurrentQuestionIndex >= m.maxQuestions {
		return nil, fmt.Errorf("%w: all %d questions already answered", ErrStateConflict, m.maxQuestions)
	}

	r := &pipelineRun{ctx: ctx, st: st, hooks: hooks, phase: PhaseAwaitingMainAnswer}

	var turn models.TurnRecord
	if pending == nil {
		decision := m.agents.DecideFollowUp(ctx, st, answer)
		if decision.NeedsFollowUp {
			mainQuestion := st.CurrentQuestion
			m.agents.GenerateFollowUp(ctx, st, answer, decision.Reason)
			if st.IsFollowUp {
				if err := r.fire(EventFollowUpIssued); err != nil {
					return nil, err
				}
				if err := hooks.checkpoint(ctx, st); err != nil {
					return nil, err
				}
				return &Outcome{
					Phase:   r.phase,
					Pending: &models.PendingFollowUp{Question: mainQuestion, Answer: answer},
				}, nil
			}
		}
		turn = models.TurnRecord{
			QuestionNumber: st.CurrentQuestionIndex + 1,
			Question:       st.CurrentQuestion,
			Answer:         answer,
		}
	} else {
		r.phase = PhaseAwaitingFollowUpAnswer
		turn = models.TurnRecord{
			QuestionNumber:   st.CurrentQuestionIndex + 1,
			Question:         pending.Question,
			Answer:           pending.Answer,
			FollowUpQuestion: st.CurrentQuestion,
			FollowUpAnswer:   answer,
		}
	}

	if last := st.LastTurn(); last != nil && last.QuestionNumber >= turn.QuestionNumber {
		return nil, fmt.Errorf("%w: question %d already recorded", ErrStateConflict, turn.QuestionNumber)
	}

	st.Turns = append(st.Turns, turn)
	if err := r.fire(EventTurnRecorded); err != nil {
		return nil, err
	}

	m.agents.EvaluateAnswer(ctx, st)
	if st.Failed() {
		return r.fail()
	}
	recorded := *st.LastTurn()
	if err := hooks.turnEvaluated(ctx, st, recorded); err != nil {
		return nil, err
	}
	out := &Outcome{Turn: &recorded}

	if st.CurrentQuestionIndex >= m.maxQuestions-1 {
		if err := r.fire(EventLastEvaluated); err != nil {
			return nil, err
		}
		m.agents.SynthesizeReport(ctx, st)
		if st.Failed() {
			return r.failWith(out)
		}
		if err := r.fire(EventReportReady); err != nil {
			return nil, err
		}
	} else {
		if err := r.fire(EventEvaluated); err != nil {
			return nil, err
		}
		st.CurrentQuestionIndex++
		st.IsFollowUp = false
		st.FollowUpCount = 0
		m.agents.GenerateQuestion(ctx, st)
		if st.Failed() {
			return r.failWith(out)
		}
		if err := r.fire(EventQuestionReady); err != nil {
			return nil, err
		}
	}

	if err := hooks.checkpoint(ctx, st); err != nil {
		return nil, err
	}
	out.Phase = r.phase
	return out, nil
}

// FinishReport synthesizes and persists the report for a session whose
// turns are all recorded but whose report was never saved.
func (m *Machine) FinishReport(ctx context.Context, st *models.SessionState, hooks Hooks) (*Outcome, error) {
	if st.Status.IsTerminal() || st.FinalReport != nil || len(st.Turns) < m.maxQuestions {
		return nil, ErrStateConflict
	}

	r := &pipelineRun{ctx: ctx, st: st, hooks: hooks, phase: PhaseCoaching}
	out := &Outcome{}
	if last := st.LastTurn(); last != nil {
		recorded := *last
		out.Turn = &recorded
	}

	m.agents.SynthesizeReport(ctx, st)
	if st.Failed() {
		return r.failWith(out)
	}
	if err := r.fire(EventReportReady); err != nil {
		return nil, err
	}
	if err := hooks.checkpoint(ctx, st); err != nil {
		return nil, err
	}
	out.Phase = r.phase
	return out, nil
}

type pipelineRun struct {
	ctx   context.Context
	st    *models.SessionState
	hooks Hooks
	phase Phase
}

func (r *pipelineRun) fire(ev Event) error {
	next, err := Transition(r.phase, ev)
	if err != nil {
		return err
	}
	r.phase = next
	return nil
}

func (r *pipelineRun) fail() (*Outcome, error) {
	return r.failWith(&Outcome{})
}

func (r *pipelineRun) failWith(out *Outcome) (*Outcome, error) {
	if err := r.fire(EventFailed); err != nil {
		return nil, err
	}
	if err := r.hooks.checkpoint(r.ctx, r.st); err != nil {
		return nil, err
	}
	out.Phase = r.phase
	return out, nil
}
