package auth

import (
	"context"
	"fmt"

	"grievance/internal/domain"
	"grievance/pkg/e"
)

// RequireRole passes when p holds any of roles. No roles means any
// authenticated principal.
func RequireRole(p domain.Principal, roles ...domain.Role) error {
	if p.SubjectID == "" {
		return e.ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q not permitted: %w", p.Role, e.ErrForbidden)
}

// ScopeFor is the visibility predicate used by list queries. Only admins
// see every complaint; everyone else sees what they filed.
func ScopeFor(p domain.Principal) domain.ComplaintFilter {
	if p.Role == domain.RoleAdmin {
		return domain.ComplaintFilter{}
	}
	return domain.ComplaintFilter{OwnerID: p.SubjectID}
}

func CanView(p domain.Principal, c *domain.Complaint) bool {
	if c == nil {
		return false
	}
	return p.Role == domain.RoleAdmin || (p.SubjectID != "" && c.CreatedBy == p.SubjectID)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
