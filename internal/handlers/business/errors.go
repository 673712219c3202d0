package business

import "fmt"

// The settlement engine reports every failure as one of six typed errors so
// callers can branch on the kind without parsing messages. Handlers map them
// onto HTTP statuses in internal/handlers.

// ValidationError indicates malformed input: bad period, bad date range,
// percent out of bounds.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Msg
	}
	return e.Msg
}

// ConflictError indicates losing a uniqueness race or acting on a record that
// already reached a terminal state: duplicate pending adjustment, duplicate
// finalize, deciding a decided adjustment.
type ConflictError struct {
	Msg          string
	AdjustmentID uint
	Year         int
	Month        int
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// PreconditionError indicates the operation is valid in general but the
// period is not in the required state yet.
type PreconditionError struct {
	Msg                string
	Year               int
	Month              int
	PendingAdjustments int64
	CurrentStatus      string
	RequiredStatus     string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

// NotFoundError indicates an unknown adjustment or settlement id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AuthorizationError indicates the acting identity may not perform the
// operation, e.g. a self-reduction submitted for somebody else's share.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

// UpstreamError wraps a payment-processor feed failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
