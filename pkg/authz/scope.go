package authz

import "github.com/google/uuid"

// Scope is the authorization scope of an authenticated principal: either
// platform-operator (acts across any tenant) or bound to exactly one tenant.
// It replaces scattered role-string comparisons with a single tagged value
// the guard can match on.
type Scope struct {
	operator bool
	tenantID uuid.UUID
}

// OperatorScope returns the platform-wide scope carried by operator
// principals. It has no tenant.
func OperatorScope() Scope {
	return Scope{operator: true}
}

// TenantScope returns a scope bound to the given tenant.
func TenantScope(tenantID uuid.UUID) Scope {
	return Scope{tenantID: tenantID}
}

// IsOperator reports whether the scope is platform-wide.
func (s Scope) IsOperator() bool { return s.operator }

// Tenant returns the bound tenant id. The second value is false for
// operator scopes.
func (s Scope) Tenant() (uuid.UUID, bool) {
	if s.operator {
		return uuid.UUID{}, false
	}
	return s.tenantID, true
}

// String renders the scope for logs.
func (s Scope) String() string {
	if s.operator {
		return "operator"
	}
	return "tenant:" + s.tenantID.String()
}
