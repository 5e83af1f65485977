package scope

import (
	"context"
	"strings"

	"github.com/goliatone/go-timeline/pkg/types"
)

// Guard validates and normalizes the scope attached to queries. It is
// intentionally small so callers can swap custom guards in tests.
type Guard interface {
	Enforce(ctx context.Context, requested types.Scope) (types.Scope, error)
}

// Resolver lets hosts rewrite a requested scope, e.g. map vanity slugs onto
// canonical org identifiers. Nil resolvers are treated as identity.
type Resolver interface {
	ResolveScope(ctx context.Context, requested types.Scope) (types.Scope, error)
}

type guard struct {
	resolver Resolver
}

// NewGuard builds a Guard from the supplied resolver. A nil resolver leaves
// scopes unchanged beyond trimming and validation.
func NewGuard(resolver Resolver) Guard {
	return guard{resolver: resolver}
}

// Ensure returns a non-nil guard so query constructors can accept nil guards
// when tests instantiate them directly.
func Ensure(g Guard) Guard {
	if g == nil {
		return guard{}
	}
	return g
}

// NopGuard returns a guard that only trims and validates.
func NopGuard() Guard {
	return guard{}
}

// Enforce resolves the requested scope and rejects incomplete pairs.
func (g guard) Enforce(ctx context.Context, requested types.Scope) (types.Scope, error) {
	scope := types.Scope{
		OrgID:     strings.TrimSpace(requested.OrgID),
		AccountID: strings.TrimSpace(requested.AccountID),
	}
	if g.resolver != nil {
		resolved, err := g.resolver.ResolveScope(ctx, scope)
		if err != nil {
			return types.Scope{}, err
		}
		scope = resolved
	}
	if err := scope.Validate(); err != nil {
		return types.Scope{}, err
	}
	return scope, nil
}
