package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultChain(), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func validInput() SubmitInput {
	return SubmitInput{
		ItemName:     "Cement",
		Quantity:     50,
		Purpose:      "Road repair",
		RequiredDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:    uuid.New(),
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPending, false},
		{StatusApproved, true},
		{StatusRejected, true},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewEngine_InvalidChain(t *testing.T) {
	tests := []struct {
		name  string
		chain []Role
	}{
		{"empty chain", nil},
		{"blank role", []Role{RoleJE, Role(" ")}},
		{"duplicate role", []Role{RoleJE, RoleAEE, RoleJE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.chain); !errors.Is(err, ErrInvalidChain) {
				t.Errorf("NewEngine() error = %v, want ErrInvalidChain", err)
			}
		})
	}
}

func TestEngine_Submit(t *testing.T) {
	e := newTestEngine(t)

	req, err := e.Submit(validInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if req.Status != StatusPending {
		t.Errorf("status = %s, want Pending", req.Status)
	}
	if req.CurrentStep == nil || *req.CurrentStep != RoleJE {
		t.Errorf("current step = %v, want JE", req.CurrentStep)
	}
	if req.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if len(req.Steps) != 5 {
		t.Fatalf("len(steps) = %d, want 5", len(req.Steps))
	}
	for _, role := range DefaultChain() {
		step := req.Steps[role]
		if step.Status != StatusPending {
			t.Errorf("step %s status = %s, want Pending", role, step.Status)
		}
		if step.DecidedAt != nil {
			t.Errorf("step %s has a decision timestamp before any decision", role)
		}
	}
}

func TestEngine_Submit_Validation(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing item name", func(in *SubmitInput) { in.ItemName = "  " }},
		{"zero quantity", func(in *SubmitInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *SubmitInput) { in.Quantity = -3 }},
		{"missing purpose", func(in *SubmitInput) { in.Purpose = "" }},
		{"zero required date", func(in *SubmitInput) { in.RequiredDate = time.Time{} }},
		{"past required date", func(in *SubmitInput) { in.RequiredDate = testNow.AddDate(0, -1, 0) }},
		{"missing creator", func(in *SubmitInput) { in.CreatedBy = uuid.Nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := e.Submit(in); !errors.Is(err, ErrValidation) {
				t.Errorf("Submit() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestEngine_Submit_RequiredDateToday(t *testing.T) {
	e := newTestEngine(t)

	in := validInput()
	in.RequiredDate = testNow // same day as the clock, earlier hour is still fine

	if _, err := e.Submit(in); err != nil {
		t.Errorf("Submit() error = %v, want nil for a same-day required date", err)
	}
}

func TestEngine_Decide_OutOfTurn(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	for _, actor := range []Role{RoleAEE, RoleEEE, RoleESE, RoleCE} {
		t.Run(string(actor), func(t *testing.T) {
			got, err := e.Decide(req, actor, StatusApproved, "", "")
			if !errors.Is(err, ErrNotCurrentApprover) {
				t.Fatalf("Decide() error = %v, want ErrNotCurrentApprover", err)
			}
			if got.Status != StatusPending || *got.CurrentStep != RoleJE {
				t.Error("failed decision mutated the snapshot")
			}
		})
	}

	// A role outside the chain never gets a turn.
	if _, err := e.Decide(req, Role("Store In Charge"), StatusApproved, "", ""); !errors.Is(err, ErrNotCurrentApprover) {
		t.Errorf("Decide() error = %v, want ErrNotCurrentApprover for unknown role", err)
	}
}

func TestEngine_Decide_InvalidDecision(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	for _, decision := range []Status{StatusPending, Status("Maybe"), Status("")} {
		if _, err := e.Decide(req, RoleJE, decision, "", ""); !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("Decide(%q) error = %v, want ErrInvalidDecision", decision, err)
		}
	}
}

func TestEngine_FullChainApproval(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	chain := DefaultChain()
	for i, actor := range chain {
		var err error
		req, err = e.Decide(req, actor, StatusApproved, "", "")
		if err != nil {
			t.Fatalf("Decide(%s) error = %v", actor, err)
		}

		if i < len(chain)-1 {
			if req.Status != StatusPending {
				t.Errorf("after %s: status = %s, want Pending", actor, req.Status)
			}
			if req.CurrentStep == nil || *req.CurrentStep != chain[i+1] {
				t.Errorf("after %s: current step = %v, want %s", actor, req.CurrentStep, chain[i+1])
			}
		}
	}

	if req.Status != StatusApproved {
		t.Errorf("final status = %s, want Approved", req.Status)
	}
	if req.CurrentStep != nil {
		t.Errorf("final current step = %v, want nil", *req.CurrentStep)
	}
	for _, role := range chain {
		step := req.Steps[role]
		if step.Status != StatusApproved {
			t.Errorf("step %s = %s, want Approved", role, step.Status)
		}
		if step.DecidedAt == nil {
			t.Errorf("step %s missing decision timestamp", role)
		}
	}
}

func TestEngine_EarlyRejection(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	req, err := e.Decide(req, RoleJE, StatusApproved, "", "")
	if err != nil {
		t.Fatalf("Decide(JE) error = %v", err)
	}

	req, err = e.Decide(req, RoleAEE, StatusRejected, "", "insufficient budget")
	if err != nil {
		t.Fatalf("Decide(AEE) error = %v", err)
	}

	if req.Status != StatusRejected {
		t.Errorf("status = %s, want Rejected", req.Status)
	}
	if req.Steps[RoleAEE].Status != StatusRejected {
		t.Errorf("AEE step = %s, want Rejected", req.Steps[RoleAEE].Status)
	}
	if req.Comments != "insufficient budget" {
		t.Errorf("comments = %q, want overwritten", req.Comments)
	}
	// The pointer is frozen where the chain stopped.
	if req.CurrentStep == nil || *req.CurrentStep != RoleAEE {
		t.Errorf("current step = %v, want frozen at AEE", req.CurrentStep)
	}

	// Nobody downstream can act on a rejected requisition.
	if _, err := e.Decide(req, RoleEEE, StatusApproved, "", ""); !errors.Is(err, ErrRequisitionClosed) {
		t.Errorf("Decide(EEE) error = %v, want ErrRequisitionClosed", err)
	}
}

func TestEngine_TerminalStatesAreFinal(t *testing.T) {
	e := newTestEngine(t)

	approved, _ := e.Submit(validInput())
	for _, actor := range DefaultChain() {
		approved, _ = e.Decide(approved, actor, StatusApproved, "", "")
	}

	rejected, _ := e.Submit(validInput())
	rejected, _ = e.Decide(rejected, RoleJE, StatusRejected, "", "")

	for _, req := range []Requisition{approved, rejected} {
		before := req
		for _, actor := range DefaultChain() {
			got, err := e.Decide(req, actor, StatusApproved, "late", "late")
			if !errors.Is(err, ErrRequisitionClosed) {
				t.Fatalf("Decide(%s) on %s requisition: error = %v, want ErrRequisitionClosed", actor, req.Status, err)
			}
			if got.Status != before.Status || got.Notes != before.Notes {
				t.Error("terminal requisition was mutated")
			}
		}
	}
}

func TestEngine_Decide_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	next, err := e.Decide(req, RoleJE, StatusApproved, "checked on site", "")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if req.Steps[RoleJE].Status != StatusPending {
		t.Error("input snapshot step was mutated")
	}
	if *req.CurrentStep != RoleJE || req.Notes != "" {
		t.Error("input snapshot was mutated")
	}
	if next.Steps[RoleJE].Status != StatusApproved || *next.CurrentStep != RoleAEE {
		t.Error("returned snapshot missing the applied decision")
	}
}

func TestEngine_NotesAndCommentsOverwrite(t *testing.T) {
	e := newTestEngine(t)
	req, _ := e.Submit(validInput())

	req, _ = e.Decide(req, RoleJE, StatusApproved, "first note", "first comment")
	if req.Notes != "first note" || req.Comments != "first comment" {
		t.Fatalf("notes/comments = %q/%q, want set", req.Notes, req.Comments)
	}

	// Empty payload fields keep the previous annotation.
	req, _ = e.Decide(req, RoleAEE, StatusApproved, "", "")
	if req.Notes != "first note" || req.Comments != "first comment" {
		t.Errorf("notes/comments = %q/%q, want unchanged", req.Notes, req.Comments)
	}

	req, _ = e.Decide(req, RoleEEE, StatusApproved, "second note", "")
	if req.Notes != "second note" || req.Comments != "first comment" {
		t.Errorf("notes/comments = %q/%q, want note overwritten only", req.Notes, req.Comments)
	}
}

// The cement scenario: submit, JE approves, AEE rejects with a comment.
func TestEngine_CementScenario(t *testing.T) {
	e := newTestEngine(t)

	req, err := e.Submit(SubmitInput{
		ItemName:     "Cement",
		Quantity:     50,
		Purpose:      "Road repair",
		RequiredDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if req.Status != StatusPending || *req.CurrentStep != RoleJE || req.Steps[RoleJE].Status != StatusPending {
		t.Fatal("unexpected initial state")
	}

	req, err = e.Decide(req, RoleJE, StatusApproved, "", "")
	if err != nil {
		t.Fatalf("Decide(JE) error = %v", err)
	}
	if *req.CurrentStep != RoleAEE || req.Steps[RoleJE].Status != StatusApproved {
		t.Fatal("JE approval did not advance the chain")
	}

	req, err = e.Decide(req, RoleAEE, StatusRejected, "", "insufficient budget")
	if err != nil {
		t.Fatalf("Decide(AEE) error = %v", err)
	}
	if req.Status != StatusRejected || req.Steps[RoleAEE].Status != StatusRejected || req.Comments != "insufficient budget" {
		t.Fatal("AEE rejection did not close the requisition")
	}
}

func TestEngine_CustomChain(t *testing.T) {
	e, err := NewEngine([]Role{RoleJE, RoleCE}, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	req, _ := e.Submit(validInput())
	req, _ = e.Decide(req, RoleJE, StatusApproved, "", "")
	req, err = e.Decide(req, RoleCE, StatusApproved, "", "")
	if err != nil {
		t.Fatalf("Decide(CE) error = %v", err)
	}

	if req.Status != StatusApproved || req.CurrentStep != nil {
		t.Error("two-role chain did not close as Approved")
	}
	if len(req.Steps) != 2 {
		t.Errorf("len(steps) = %d, want 2", len(req.Steps))
	}
}
