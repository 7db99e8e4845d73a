package workflow

import "errors"

var (
	// ErrValidation is returned when a submit input fails validation
	ErrValidation = errors.New("invalid requisition input")

	// ErrInvalidDecision is returned when a decision is neither Approved nor Rejected
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrNotCurrentApprover is returned when the acting role does not hold the current approval step
	ErrNotCurrentApprover = errors.New("role is not the current approver")

	// ErrRequisitionClosed is returned when a decision is attempted on an approved or rejected requisition
	ErrRequisitionClosed = errors.New("requisition is already closed")

	// ErrInvalidChain is returned when an engine is built with an empty or duplicated chain
	ErrInvalidChain = errors.New("invalid approval chain")
)
