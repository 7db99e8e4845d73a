package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StepDecision records one role's decision on a requisition
type StepDecision struct {
	Status    Status     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// Requisition is a plain snapshot of a requisition's approval state. The
// engine never persists it; callers load it from storage, run a transition,
// and persist the result.
type Requisition struct {
	ID           uuid.UUID             `json:"id"`
	ItemName     string                `json:"item_name"`
	Quantity     int                   `json:"quantity"`
	Purpose      string                `json:"purpose"`
	RequiredDate time.Time             `json:"required_date"`
	Description  string                `json:"description,omitempty"`
	Status       Status                `json:"status"`
	CreatedBy    uuid.UUID             `json:"created_by"`
	CurrentStep  *Role                 `json:"current_approval_step"` // nil once the chain is exhausted
	Steps        map[Role]StepDecision `json:"approvals"`
	Notes        string                `json:"notes,omitempty"`
	Comments     string                `json:"comments,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// SubmitInput carries the immutable request fields of a new requisition
type SubmitInput struct {
	ItemName     string
	Quantity     int
	Purpose      string
	RequiredDate time.Time
	Description  string
	CreatedBy    uuid.UUID
}

// Engine computes requisition approval transitions over an ordered role
// chain. It is pure: every method reads one snapshot and returns the next
// one, leaving persistence and per-requisition serialization to the caller.
type Engine struct {
	chain []Role
	index map[Role]int
	now   func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the engine clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine builds an engine over the given ordered approval chain.
// The chain must be non-empty and free of duplicate roles.
func NewEngine(chain []Role, opts ...Option) (*Engine, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: chain is empty", ErrInvalidChain)
	}

	index := make(map[Role]int, len(chain))
	for i, role := range chain {
		if strings.TrimSpace(string(role)) == "" {
			return nil, fmt.Errorf("%w: blank role at position %d", ErrInvalidChain, i)
		}
		if _, dup := index[role]; dup {
			return nil, fmt.Errorf("%w: duplicate role %s", ErrInvalidChain, role)
		}
		index[role] = i
	}

	e := &Engine{
		chain: append([]Role(nil), chain...),
		index: index,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Chain returns a copy of the engine's ordered approval chain
func (e *Engine) Chain() []Role {
	return append([]Role(nil), e.chain...)
}

// Submit validates the input and returns a new Pending requisition with the
// current step pointing at the first role of the chain and every per-role
// decision Pending.
func (e *Engine) Submit(in SubmitInput) (Requisition, error) {
	if strings.TrimSpace(in.ItemName) == "" {
		return Requisition{}, fmt.Errorf("%w: item_name is required", ErrValidation)
	}
	if in.Quantity <= 0 {
		return Requisition{}, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return Requisition{}, fmt.Errorf("%w: purpose is required", ErrValidation)
	}
	if in.RequiredDate.IsZero() {
		return Requisition{}, fmt.Errorf("%w: required_date is required", ErrValidation)
	}
	now := e.now()
	if in.RequiredDate.Before(startOfDay(now)) {
		return Requisition{}, fmt.Errorf("%w: required_date must not be in the past", ErrValidation)
	}
	if in.CreatedBy == uuid.Nil {
		return Requisition{}, fmt.Errorf("%w: created_by is required", ErrValidation)
	}

	steps := make(map[Role]StepDecision, len(e.chain))
	for _, role := range e.chain {
		steps[role] = StepDecision{Status: StatusPending}
	}

	first := e.chain[0]
	return Requisition{
		ID:           uuid.New(),
		ItemName:     in.ItemName,
		Quantity:     in.Quantity,
		Purpose:      in.Purpose,
		RequiredDate: in.RequiredDate,
		Description:  in.Description,
		Status:       StatusPending,
		CreatedBy:    in.CreatedBy,
		CurrentStep:  &first,
		Steps:        steps,
		CreatedAt:    now,
	}, nil
}

// Decide applies one role's decision to a requisition snapshot and returns
// the next snapshot. The input is never mutated: on any guard failure it is
// returned unchanged alongside the error.
//
// Approving stamps the acting role's step and advances the current step, or
// closes the requisition as Approved when the last role signs off. Rejecting
// stamps the step and closes the requisition as Rejected immediately; the
// step pointer is frozen where the chain stopped.
func (e *Engine) Decide(r Requisition, actor Role, decision Status, notes, comments string) (Requisition, error) {
	if r.Status.IsTerminal() {
		return r, fmt.Errorf("%w: status is %s", ErrRequisitionClosed, r.Status)
	}
	if r.CurrentStep == nil {
		return r, fmt.Errorf("%w: no approval step is open", ErrRequisitionClosed)
	}
	if _, known := e.index[actor]; !known {
		return r, fmt.Errorf("%w: %s is not part of the approval chain", ErrNotCurrentApprover, actor)
	}
	if actor != *r.CurrentStep {
		return r, fmt.Errorf("%w: waiting on %s, got %s", ErrNotCurrentApprover, *r.CurrentStep, actor)
	}
	if !decision.IsDecision() {
		return r, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	out := r
	out.Steps = make(map[Role]StepDecision, len(r.Steps))
	for role, step := range r.Steps {
		out.Steps[role] = step
	}

	decidedAt := e.now()
	out.Steps[actor] = StepDecision{Status: decision, DecidedAt: &decidedAt}

	if decision == StatusApproved {
		if next := e.nextRole(actor); next != nil {
			out.CurrentStep = next
		} else {
			out.CurrentStep = nil
			out.Status = StatusApproved
		}
	} else {
		// The pointer stays where the chain stopped; the terminal status
		// alone blocks any further decision.
		out.Status = StatusRejected
	}

	if notes != "" {
		out.Notes = notes
	}
	if comments != "" {
		out.Comments = comments
	}

	return out, nil
}

// nextRole returns the role after the given one in the chain, or nil for the last role
func (e *Engine) nextRole(role Role) *Role {
	i := e.index[role]
	if i+1 >= len(e.chain) {
		return nil
	}
	next := e.chain[i+1]
	return &next
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
