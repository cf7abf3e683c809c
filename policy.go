package auth

import (
	"net/http"
	"strings"
)

// Rule is one entry in the access policy table. An empty Method matches any
// method; an empty Roles set on a non-public rule means any authenticated
// identity qualifies.
type Rule struct {
	Prefix string
	Method string
	Public bool
	Roles  []UserRole
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return strings.HasPrefix(path, r.Prefix)
}

func (r Rule) decide(claims AuthClaims) error {
	if r.Public {
		return nil
	}

	if claims == nil {
		return ErrAuthenticationRequired
	}

	if len(r.Roles) == 0 {
		return nil
	}

	role := NormalizeRole(claims.Role())
	for _, allowed := range r.Roles {
		if role == allowed {
			return nil
		}
	}

	return ErrInsufficientRole
}

// AccessPolicy is a static, ordered table of path rules consulted once per
// request, after the authentication filter and before the domain handler.
type AccessPolicy struct {
	rules []Rule
}

// NewAccessPolicy builds a policy from rules in declaration order. The first
// matching rule decides; requests matching no rule require some
// authenticated identity, any role.
func NewAccessPolicy(rules ...Rule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// Authorize gates the request. A nil claims value means the request is
// anonymous; on role-gated prefixes that is always a rejection, never "any
// role".
func (p *AccessPolicy) Authorize(method, path string, claims AuthClaims) error {
	for _, rule := range p.rules {
		if rule.matches(method, path) {
			return rule.decide(claims)
		}
	}

	if claims == nil {
		return ErrAuthenticationRequired
	}

	return nil
}

// Rules exposes the table for inspection
func (p *AccessPolicy) Rules() []Rule {
	return p.rules
}

// DefaultAccessPolicy is the platform's route table: pre-flight probes and
// the auth endpoints are public, course-management prefixes require
// INSTRUCTOR or ADMIN, the student and admin areas their own roles, and
// everything else any authenticated identity.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		Rule{Method: http.MethodOptions, Prefix: "/", Public: true},
		Rule{Prefix: "/auth/register", Public: true},
		Rule{Prefix: "/auth/login", Public: true},
		Rule{Prefix: "/courses", Roles: []UserRole{RoleInstructor, RoleAdmin}},
		Rule{Prefix: "/subjects", Roles: []UserRole{RoleInstructor, RoleAdmin}},
		Rule{Prefix: "/topics", Roles: []UserRole{RoleInstructor, RoleAdmin}},
		Rule{Prefix: "/student", Roles: []UserRole{RoleStudent}},
		Rule{Prefix: "/admin", Roles: []UserRole{RoleAdmin}},
	)
}
