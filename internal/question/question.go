package question

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
)

// ErrAlreadyResolved is returned when a question is resolved a second time.
var ErrAlreadyResolved = errors.New("question already resolved")

// Response is what a player endpoint returned.
type Response struct {
	StatusCode int
	Body       string
}

// Success reports a 2xx status.
func (r Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Dispatcher delivers a question to a player endpoint. A non-nil error means
// the endpoint could not be reached at all.
type Dispatcher interface {
	Dispatch(ctx context.Context, target string) (Response, error)
}

// NewID returns a short opaque question id.
func NewID() string {
	return uuid.NewString()[:8]
}

// Question is one ask of one Type to one player. It is resolved exactly once,
// either with a raw answer or with a Problem, and is read-only afterwards.
type Question struct {
	id    string
	typ   Type
	round int

	mu      sync.RWMutex
	answer  *string
	problem Problem
}

// New wraps t in a fresh question drawn during round.
func New(t Type, round int) *Question {
	return &Question{id: NewID(), typ: t, round: round}
}

func (q *Question) ID() string     { return q.id }
func (q *Question) Type() Type     { return q.typ }
func (q *Question) Kind() Kind     { return q.typ.Kind() }
func (q *Question) Round() int     { return q.round }
func (q *Question) AsText() string { return q.typ.Text() }

// String is the form sent to players: "<id>: <text>".
func (q *Question) String() string {
	return q.id + ": " + q.typ.Text()
}

// URL appends the question as the q parameter of the player's base URL.
func (q *Question) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse player url: %w", err)
	}
	values := u.Query()
	values.Set("q", q.String())
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// Ask sends the question to p and records the outcome. Transport failures
// and bad player URLs become ProblemNoResponse, non-2xx replies become
// ProblemErrorResponse. Only ErrAlreadyResolved is returned.
func (q *Question) Ask(ctx context.Context, d Dispatcher, p Player) error {
	target, err := q.URL(p.URL)
	if err != nil {
		return q.RecordProblem(ProblemNoResponse)
	}
	resp, err := d.Dispatch(ctx, target)
	switch {
	case err != nil:
		return q.RecordProblem(ProblemNoResponse)
	case !resp.Success():
		return q.RecordProblem(ProblemErrorResponse)
	default:
		return q.RecordAnswer(resp.Body)
	}
}

// RecordAnswer stores the untouched response body.
func (q *Question) RecordAnswer(raw string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.resolvedLocked() {
		return ErrAlreadyResolved
	}
	q.answer = &raw
	return nil
}

// RecordProblem marks the question as never answered.
func (q *Question) RecordProblem(p Problem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.resolvedLocked() {
		return ErrAlreadyResolved
	}
	q.problem = p
	return nil
}

func (q *Question) resolvedLocked() bool {
	return q.answer != nil || q.problem != ""
}

// Answer returns the raw answer, if one was recorded.
func (q *Question) Answer() (string, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.answer == nil {
		return "", false
	}
	return *q.answer, true
}

// Problem returns the recorded problem, or "" when there is none.
func (q *Question) Problem() Problem {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.problem
}

// Result grades the question. It stays ResultPending until resolved.
func (q *Question) Result() Result {
	q.mu.RLock()
	defer q.mu.RUnlock()
	switch {
	case q.problem != "":
		return Result(q.problem)
	case q.answer == nil:
		return ResultPending
	case q.typ.Accepts(*q.answer):
		return ResultCorrect
	default:
		return ResultWrong
	}
}

// Score is the variant's points for a correct answer and zero otherwise.
func (q *Question) Score() int {
	if q.Result() == ResultCorrect {
		return q.typ.Points()
	}
	return 0
}

// DelayBeforeNext is the pacing hint for the scheduler, in time units.
func (q *Question) DelayBeforeNext() int {
	switch q.Result() {
	case ResultCorrect:
		return DelayCorrect
	case ResultWrong:
		return DelayWrong
	default:
		return DelayProblem
	}
}

// DisplayResult summarises the question for logs.
func (q *Question) DisplayResult() string {
	answer, _ := q.Answer()
	return fmt.Sprintf("\tquestion: %s\n\tanswer: %s\n\tresult: %s", q.String(), answer, q.Result())
}
