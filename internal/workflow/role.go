package workflow

// Role identifies a position in the engineering approval hierarchy.
type Role string

const (
	RoleJE  Role = "JE"
	RoleAEE Role = "AEE"
	RoleEEE Role = "EEE"
	RoleESE Role = "ESE"
	RoleCE  Role = "CE"
)

// DefaultChain returns the approval order every requisition walks through:
// JE -> AEE -> EEE -> ESE -> CE.
func DefaultChain() []Role {
	return []Role{RoleJE, RoleAEE, RoleEEE, RoleESE, RoleCE}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Status represents the overall or per-step approval state of a requisition
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsTerminal returns true if no further transitions are allowed from the status
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsDecision returns true if the status is a valid approval decision
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
