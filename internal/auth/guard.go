package auth

import "github.com/isdelr/gymdiary/internal/models"

// DenyReason explains why the guard refused a request.
type DenyReason int

const (
	DenyNone DenyReason = iota
	// DenyLogin means no authenticated user; send them to the login page.
	DenyLogin
	// DenyDashboard means the route is for anonymous visitors only.
	DenyDashboard
	// DenyForbidden means the user is authenticated but lacks the role.
	DenyForbidden
)

func (r DenyReason) String() string {
	switch r {
	case DenyLogin:
		return "redirect_login"
	case DenyDashboard:
		return "redirect_dashboard"
	case DenyForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision { return Decision{Allowed: true} }
func deny(reason DenyReason) Decision { return Decision{Reason: reason} }

type policyKind int

const (
	policyPublic policyKind = iota
	policyMembersOnly
	policyAnonymousOnly
	policyRole
)

// Policy describes who may reach a route.
type Policy struct {
	kind policyKind
	role string
}

var (
	Public        = Policy{kind: policyPublic}
	MembersOnly   = Policy{kind: policyMembersOnly}
	AnonymousOnly = Policy{kind: policyAnonymousOnly}
)

// RoleRequired admits authenticated users holding role.
func RoleRequired(role string) Policy {
	return Policy{kind: policyRole, role: role}
}

// Authorize decides whether state satisfies policy.
func Authorize(policy Policy, state SessionState) Decision {
	switch policy.kind {
	case policyMembersOnly:
		if !state.Authenticated() {
			return deny(DenyLogin)
		}
	case policyAnonymousOnly:
		if state.Authenticated() {
			return deny(DenyDashboard)
		}
	case policyRole:
		if !state.Authenticated() {
			return deny(DenyLogin)
		}
		if !(models.User{Role: state.Role}).HasRole(policy.role) {
			return deny(DenyForbidden)
		}
	}
	return allow()
}
