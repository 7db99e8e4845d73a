package service

import (
	"context"
	"sync"
	"testing"

	"backend/internal/model"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeRequisitionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Requisition
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{rows: make(map[uuid.UUID]model.Requisition)}
}

func (f *fakeRequisitionRepo) Create(_ context.Context, req *model.Requisition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[req.ID] = *req
	return nil
}

func (f *fakeRequisitionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Requisition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := row
	return &copied, nil
}

func (f *fakeRequisitionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRequisitionRepo) List(_ context.Context, status string, _, _ int) ([]model.Requisition, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Requisition
	for _, row := range f.rows {
		if status == "" || row.Status == status {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequisitionRepo) Update(_ context.Context, req *model.Requisition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[req.ID] = *req
	return nil
}

func (f *fakeRequisitionRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.AuditLog(nil), f.entries...), int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- Fixtures ---

func newTestService(t *testing.T) (RequisitionService, *fakeRequisitionRepo, *fakeAuditRepo) {
	t.Helper()
	engine, err := workflow.NewEngine(workflow.DefaultChain())
	require.NoError(t, err)

	repo := newFakeRequisitionRepo()
	audit := &fakeAuditRepo{}
	svc := NewRequisitionService(engine, repo, audit, fakeTxManager{}, nil, zap.NewNop())
	return svc, repo, audit
}

func submitFixture(t *testing.T, svc RequisitionService) RequisitionResponse {
	t.Helper()
	res, err := svc.Submit(context.Background(), uuid.NewString(), SubmitRequisitionRequest{
		ItemName:     "Cement",
		Quantity:     50,
		Purpose:      "Road repair",
		RequiredDate: "2030-06-01",
	})
	require.NoError(t, err)
	return res
}

// --- Tests ---

func TestRequisitionService_Submit(t *testing.T) {
	svc, repo, audit := newTestService(t)

	res := submitFixture(t, svc)

	assert.Equal(t, "Pending", res.Status)
	require.NotNil(t, res.CurrentApprovalStep)
	assert.Equal(t, "JE", *res.CurrentApprovalStep)
	assert.Len(t, res.Approvals, 5)
	for role, step := range res.Approvals {
		assert.Equalf(t, "Pending", step.Status, "step %s", role)
		assert.Nilf(t, step.DecidedAt, "step %s", role)
	}

	assert.Len(t, repo.rows, 1)
	assert.Equal(t, []string{model.ActionSubmitRequisition}, audit.actions())
}

func TestRequisitionService_Submit_Invalid(t *testing.T) {
	svc, repo, _ := newTestService(t)

	tests := []struct {
		name string
		req  SubmitRequisitionRequest
	}{
		{"zero quantity", SubmitRequisitionRequest{ItemName: "Cement", Quantity: 0, Purpose: "x", RequiredDate: "2030-06-01"}},
		{"blank item", SubmitRequisitionRequest{ItemName: " ", Quantity: 5, Purpose: "x", RequiredDate: "2030-06-01"}},
		{"bad date", SubmitRequisitionRequest{ItemName: "Cement", Quantity: 5, Purpose: "x", RequiredDate: "June 1st"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), uuid.NewString(), tt.req)
			assert.ErrorIs(t, err, workflow.ErrValidation)
		})
	}

	_, err := svc.Submit(context.Background(), "not-a-uuid", SubmitRequisitionRequest{
		ItemName: "Cement", Quantity: 5, Purpose: "x", RequiredDate: "2030-06-01",
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	assert.Empty(t, repo.rows, "failed submits must not persist anything")
}

func TestRequisitionService_Decide_AdvancesChain(t *testing.T) {
	svc, _, audit := newTestService(t)
	res := submitFixture(t, svc)
	actorID := uuid.NewString()

	res, err := svc.Decide(context.Background(), res.ID, actorID, "JE", DecisionRequest{Status: "Approved"})
	require.NoError(t, err)

	assert.Equal(t, "Pending", res.Status)
	require.NotNil(t, res.CurrentApprovalStep)
	assert.Equal(t, "AEE", *res.CurrentApprovalStep)
	assert.Equal(t, "Approved", res.Approvals["JE"].Status)
	assert.NotNil(t, res.Approvals["JE"].DecidedAt)
	assert.Contains(t, audit.actions(), model.ActionApproveRequisitionStep)
}

func TestRequisitionService_Decide_FullChain(t *testing.T) {
	svc, _, _ := newTestService(t)
	res := submitFixture(t, svc)
	actorID := uuid.NewString()

	for _, role := range []string{"JE", "AEE", "EEE", "ESE", "CE"} {
		var err error
		res, err = svc.Decide(context.Background(), res.ID, actorID, role, DecisionRequest{Status: "Approved"})
		require.NoErrorf(t, err, "decide as %s", role)
	}

	assert.Equal(t, "Approved", res.Status)
	assert.Nil(t, res.CurrentApprovalStep)

	status, err := svc.GetStatus(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Approved", status)
}

func TestRequisitionService_Decide_OutOfTurn(t *testing.T) {
	svc, repo, _ := newTestService(t)
	res := submitFixture(t, svc)

	_, err := svc.Decide(context.Background(), res.ID, uuid.NewString(), "CE", DecisionRequest{Status: "Approved"})
	assert.ErrorIs(t, err, workflow.ErrNotCurrentApprover)

	stored, findErr := repo.FindByID(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, findErr)
	assert.Equal(t, "Pending", stored.ApprovalCE, "failed decision must not mutate the row")
	assert.Equal(t, "JE", *stored.CurrentApprovalStep)
}

func TestRequisitionService_Decide_Rejection(t *testing.T) {
	svc, _, audit := newTestService(t)
	res := submitFixture(t, svc)
	actorID := uuid.NewString()

	res, err := svc.Decide(context.Background(), res.ID, actorID, "JE", DecisionRequest{Status: "Approved"})
	require.NoError(t, err)

	res, err = svc.Decide(context.Background(), res.ID, actorID, "AEE", DecisionRequest{
		Status:   "Rejected",
		Comments: "insufficient budget",
	})
	require.NoError(t, err)

	assert.Equal(t, "Rejected", res.Status)
	assert.Equal(t, "Rejected", res.Approvals["AEE"].Status)
	assert.Equal(t, "insufficient budget", res.Comments)
	assert.Contains(t, audit.actions(), model.ActionRejectRequisition)

	// The terminal status blocks every later decision.
	_, err = svc.Decide(context.Background(), res.ID, actorID, "EEE", DecisionRequest{Status: "Approved"})
	assert.ErrorIs(t, err, workflow.ErrRequisitionClosed)
}

func TestRequisitionService_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetStatus(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrRequisitionNotFound)

	_, err = svc.Decide(context.Background(), uuid.NewString(), uuid.NewString(), "JE", DecisionRequest{Status: "Approved"})
	assert.ErrorIs(t, err, ErrRequisitionNotFound)

	_, err = svc.GetByID(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrRequisitionNotFound)
}

func TestRequisitionService_Delete(t *testing.T) {
	svc, repo, audit := newTestService(t)
	res := submitFixture(t, svc)

	err := svc.Delete(context.Background(), res.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, repo.rows)
	assert.Contains(t, audit.actions(), model.ActionDeleteRequisition)

	err = svc.Delete(context.Background(), res.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrRequisitionNotFound)
}

func TestRequisitionService_List_FilterByStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	first := submitFixture(t, svc)
	submitFixture(t, svc)

	_, err := svc.Decide(context.Background(), first.ID, uuid.NewString(), "JE", DecisionRequest{Status: "Rejected"})
	require.NoError(t, err)

	rejected, total, err := svc.List(context.Background(), RequisitionFilter{Status: "Rejected"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rejected, 1)
	assert.Equal(t, first.ID, rejected[0].ID)

	all, total, err := svc.List(context.Background(), RequisitionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
