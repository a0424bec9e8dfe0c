// internal/core/domain/request.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the state of a consumption request
type RequestStatus string

// Request states. Approved and rejected are terminal for the decision
// machine; an approved request additionally awaits fulfillment until a
// correlated exit transaction commits.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// RequestItem is one requested line with a snapshot of the catalog fields
// at submission time.
type RequestItem struct {
	ItemID         uuid.UUID  `json:"item_id"`
	Name           string     `json:"name"`
	Quantity       int64      `json:"quantity"`
	Unit           string     `json:"unit"`
	IsPerishable   bool       `json:"is_perishable"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// Request is a pending ask for stock. Approval only marks intent; the
// operator later finalizes it with an exit transaction carrying the request
// id, which marks the request fulfilled. This two-phase design lets the
// operator adjust the exit batch before committing stock changes.
type Request struct {
	ID              uuid.UUID     `json:"id"`
	TenantID        string        `json:"tenant_id"`
	Requester       Actor         `json:"requester"`
	Department      string        `json:"department"`
	Purpose         string        `json:"purpose,omitempty"`
	Items           []RequestItem `json:"items"`
	Status          RequestStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time     `json:"submitted_at"`
	DecidedBy       string        `json:"decided_by,omitempty"`
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	FulfilledAt     *time.Time    `json:"fulfilled_at,omitempty"`
}

// Validate checks a request before submission
func (r *Request) Validate() error {
	if r.Requester.Primary == "" {
		return &ValidationError{Field: "requester", Reason: "is required"}
	}
	if r.Department == "" {
		return &ValidationError{Field: "department", Reason: "is required"}
	}
	if len(r.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for _, it := range r.Items {
		if it.ItemID == uuid.Nil {
			return &ValidationError{Field: "items", Reason: "line item id is required"}
		}
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items", Reason: "line quantity must be positive"}
		}
	}
	return nil
}

// PrepareForStorage assigns identity and defaults before persistence
func (r *Request) PrepareForStorage() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestPending
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
}

// Approve transitions a pending request to approved, stamping the approver.
// Any other starting state fails: terminal states admit no transition.
func (r *Request) Approve(actorID string, now time.Time) error {
	if r.Status != RequestPending {
		return &ValidationError{Field: "status", Reason: "request is already " + string(r.Status)}
	}
	if actorID == "" {
		return &ValidationError{Field: "actor", Reason: "is required"}
	}

	r.Status = RequestApproved
	r.DecidedBy = actorID
	r.DecidedAt = &now
	return nil
}

// Reject transitions a pending request to rejected. A non-empty reason is
// required.
func (r *Request) Reject(actorID, reason string, now time.Time) error {
	if r.Status != RequestPending {
		return &ValidationError{Field: "status", Reason: "request is already " + string(r.Status)}
	}
	if actorID == "" {
		return &ValidationError{Field: "actor", Reason: "is required"}
	}
	if reason == "" {
		return &ValidationError{Field: "rejection_reason", Reason: "is required"}
	}

	r.Status = RequestRejected
	r.DecidedBy = actorID
	r.DecidedAt = &now
	r.RejectionReason = reason
	return nil
}

// MarkFulfilled records that a correlated exit transaction committed for an
// approved request.
func (r *Request) MarkFulfilled(now time.Time) error {
	if r.Status != RequestApproved {
		return &ValidationError{Field: "status", Reason: "only approved requests can be fulfilled"}
	}
	if r.FulfilledAt != nil {
		return &ValidationError{Field: "status", Reason: "request is already fulfilled"}
	}

	r.FulfilledAt = &now
	return nil
}

// AwaitingFulfillment reports whether an approved request still lacks its
// correlated exit.
func (r *Request) AwaitingFulfillment() bool {
	return r.Status == RequestApproved && r.FulfilledAt == nil
}
