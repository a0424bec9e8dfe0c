// internal/core/domain/session.go
package domain

// Session carries the acting identity through every core operation instead
// of ambient global auth state. ActorID is the opaque identifier supplied by
// the identity provider (typically an operator email); TenantID scopes
// request history to one secretariat.
type Session struct {
	ActorID  string `json:"actor_id"`
	Role     string `json:"role,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Validate checks the session before a mutating operation
func (s Session) Validate() error {
	if s.ActorID == "" {
		return &ValidationError{Field: "actor_id", Reason: "is required"}
	}
	return nil
}
