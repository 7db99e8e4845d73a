package model

import (
	"time"

	"backend/internal/workflow"

	"github.com/google/uuid"
)

// Requisition is the persisted form of a material requisition walking the
// JE -> AEE -> EEE -> ESE -> CE approval chain. Per-role decisions live in
// discrete columns; all transition logic operates on the workflow snapshot
// produced by Snapshot().
type Requisition struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemName     string    `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity     int       `gorm:"type:int;not null" json:"quantity"`
	Purpose      string    `gorm:"type:varchar(255);not null" json:"purpose"`
	RequiredDate time.Time `gorm:"not null" json:"required_date"`
	Description  string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	Status       string    `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator      *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	ApprovalJE  string `gorm:"type:varchar(20);not null;default:'Pending'" json:"approval_je"`
	ApprovalAEE string `gorm:"type:varchar(20);not null;default:'Pending'" json:"approval_aee"`
	ApprovalEEE string `gorm:"type:varchar(20);not null;default:'Pending'" json:"approval_eee"`
	ApprovalESE string `gorm:"type:varchar(20);not null;default:'Pending'" json:"approval_ese"`
	ApprovalCE  string `gorm:"type:varchar(20);not null;default:'Pending'" json:"approval_ce"`

	ApprovedDateJE  *time.Time `json:"approved_date_je,omitempty"`
	ApprovedDateAEE *time.Time `json:"approved_date_aee,omitempty"`
	ApprovedDateEEE *time.Time `json:"approved_date_eee,omitempty"`
	ApprovedDateESE *time.Time `json:"approved_date_ese,omitempty"`
	ApprovedDateCE  *time.Time `json:"approved_date_ce,omitempty"`

	// Null once the chain is exhausted; frozen in place on rejection.
	CurrentApprovalStep *string `gorm:"type:varchar(10)" json:"current_approval_step"`

	Notes    string `gorm:"type:varchar(255)" json:"notes,omitempty"`
	Comments string `gorm:"type:varchar(255)" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot converts the row into the plain form the workflow engine consumes
func (r *Requisition) Snapshot() workflow.Requisition {
	steps := map[workflow.Role]workflow.StepDecision{
		workflow.RoleJE:  {Status: workflow.Status(r.ApprovalJE), DecidedAt: r.ApprovedDateJE},
		workflow.RoleAEE: {Status: workflow.Status(r.ApprovalAEE), DecidedAt: r.ApprovedDateAEE},
		workflow.RoleEEE: {Status: workflow.Status(r.ApprovalEEE), DecidedAt: r.ApprovedDateEEE},
		workflow.RoleESE: {Status: workflow.Status(r.ApprovalESE), DecidedAt: r.ApprovedDateESE},
		workflow.RoleCE:  {Status: workflow.Status(r.ApprovalCE), DecidedAt: r.ApprovedDateCE},
	}

	var current *workflow.Role
	if r.CurrentApprovalStep != nil {
		role := workflow.Role(*r.CurrentApprovalStep)
		current = &role
	}

	return workflow.Requisition{
		ID:           r.ID,
		ItemName:     r.ItemName,
		Quantity:     r.Quantity,
		Purpose:      r.Purpose,
		RequiredDate: r.RequiredDate,
		Description:  r.Description,
		Status:       workflow.Status(r.Status),
		CreatedBy:    r.CreatedBy,
		CurrentStep:  current,
		Steps:        steps,
		Notes:        r.Notes,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt,
	}
}

// ApplySnapshot writes an engine-produced snapshot back into the row's columns
func (r *Requisition) ApplySnapshot(s workflow.Requisition) {
	r.Status = string(s.Status)
	r.Notes = s.Notes
	r.Comments = s.Comments

	r.ApprovalJE = string(s.Steps[workflow.RoleJE].Status)
	r.ApprovalAEE = string(s.Steps[workflow.RoleAEE].Status)
	r.ApprovalEEE = string(s.Steps[workflow.RoleEEE].Status)
	r.ApprovalESE = string(s.Steps[workflow.RoleESE].Status)
	r.ApprovalCE = string(s.Steps[workflow.RoleCE].Status)

	r.ApprovedDateJE = s.Steps[workflow.RoleJE].DecidedAt
	r.ApprovedDateAEE = s.Steps[workflow.RoleAEE].DecidedAt
	r.ApprovedDateEEE = s.Steps[workflow.RoleEEE].DecidedAt
	r.ApprovedDateESE = s.Steps[workflow.RoleESE].DecidedAt
	r.ApprovedDateCE = s.Steps[workflow.RoleCE].DecidedAt

	if s.CurrentStep != nil {
		step := string(*s.CurrentStep)
		r.CurrentApprovalStep = &step
	} else {
		r.CurrentApprovalStep = nil
	}
}

// NewRequisitionFromSnapshot builds a fresh row from a submitted snapshot
func NewRequisitionFromSnapshot(s workflow.Requisition) *Requisition {
	r := &Requisition{
		ID:           s.ID,
		ItemName:     s.ItemName,
		Quantity:     s.Quantity,
		Purpose:      s.Purpose,
		RequiredDate: s.RequiredDate,
		Description:  s.Description,
		CreatedBy:    s.CreatedBy,
	}
	r.ApplySnapshot(s)
	return r
}
