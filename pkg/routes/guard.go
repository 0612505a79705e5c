package routes

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/urbanaid/urbanaid-go/pkg/session"
)

// SessionState is the slice of the session manager the guard consults.
type SessionState interface {
	Authenticated(ctx context.Context) bool
}

// IdentityReader is the slice of the identity store the guard consults.
// Subject ids always come from here, never from the requested path.
type IdentityReader interface {
	Role() session.Role
	Identity() session.Identity
	ProviderApproved() *bool
	ProviderBlocked() *bool
	CustomerBlocked() *bool
}

// Target is one navigation attempt: the route being entered, the subject
// id its path encodes (0 when none), the full requested path, and where
// the navigation came from.
type Target struct {
	Route     Route
	SubjectID int
	FullPath  string
	From      string
}

// Decision is the guard's verdict. When Allowed is false, Redirect names
// the route to send the user to instead; ReturnTo carries the originally
// requested path for post-login resumption, and Warning is surfaced to
// the user.
type Decision struct {
	Allowed   bool
	Redirect  string
	SubjectID int
	ReturnTo  string
	Warning   string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(name string) Decision {
	return Decision{Redirect: name}
}

type Guard struct {
	session  SessionState
	identity IdentityReader
	logger   logr.Logger
}

func NewGuard(sessionState SessionState, identity IdentityReader, logger logr.Logger) *Guard {
	return &Guard{
		session:  sessionState,
		identity: identity,
		logger:   logger,
	}
}

// Evaluate runs the fixed-order authorization checks for one navigation
// attempt.
func (g *Guard) Evaluate(ctx context.Context, target Target) Decision {
	route := target.Route

	if route.GuestOnly && g.session.Authenticated(ctx) {
		back := target.From
		if back == "" {
			back = RouteHome
		}
		g.logger.V(1).Info("guest-only route requested while authenticated", "route", route.Name)
		return redirect(back)
	}

	if route.RequiresAuth && !g.session.Authenticated(ctx) {
		decision := redirect(RouteLogin)
		decision.ReturnTo = target.FullPath
		decision.Warning = "User is not loggedin!!"
		return decision
	}

	if route.RequiresAuth && !route.AllowedRoles.Empty() && !route.AllowedRoles.Has(g.identity.Role()) {
		return redirect(RouteUnauthorized)
	}

	// Terminal views skip subject checks so a redirect to them cannot
	// re-trigger the same redirect.
	if route.Terminal {
		return allow()
	}

	switch route.Ownership {
	case OwnershipCustomer:
		return g.evaluateCustomer(target)
	case OwnershipProvider:
		return g.evaluateProvider(target)
	}

	return allow()
}

func (g *Guard) evaluateCustomer(target Target) Decision {
	identity := g.identity.Identity()
	if identity.Customer.ID == nil || *identity.Customer.ID != target.SubjectID {
		return redirect(RouteUnauthorized)
	}

	if blocked := g.identity.CustomerBlocked(); blocked != nil && *blocked {
		decision := redirect(RouteCustomerBlocked)
		decision.SubjectID = *identity.Customer.ID
		return decision
	}

	return allow()
}

func (g *Guard) evaluateProvider(target Target) Decision {
	identity := g.identity.Identity()
	if identity.Provider.ID == nil || *identity.Provider.ID != target.SubjectID {
		return redirect(RouteUnauthorized)
	}

	// Approval gates before the blocked check for providers.
	if approved := g.identity.ProviderApproved(); approved == nil || !*approved {
		decision := redirect(RouteProviderNotApproved)
		decision.SubjectID = *identity.Provider.ID
		return decision
	}

	if blocked := g.identity.ProviderBlocked(); blocked != nil && *blocked {
		decision := redirect(RouteProviderBlocked)
		decision.SubjectID = *identity.Provider.ID
		return decision
	}

	return allow()
}
