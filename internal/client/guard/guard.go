// Package guard implements the routing policy that gates dashboard
// surfaces by role.
package guard

import (
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Decision is the outcome of a guard check.
type Decision int

const (
	// Wait means the session is still loading; render nothing, go nowhere.
	Wait Decision = iota
	// Allow renders the guarded content.
	Allow
	// Redirect navigates to Result.Target.
	Redirect
	// Settled means a redirect was already issued by this guard; repeated
	// checks from re-renders must not navigate again.
	Settled
)

type Result struct {
	Decision Decision
	Target   string
}

// Guard restricts one route to a set of roles. It holds no state beyond
// the one-shot redirect latch, so a fresh Guard is created per guarded
// route instance.
type Guard struct {
	allowed    map[models.Role]bool
	redirected bool
}

func New(allowed ...models.Role) *Guard {
	g := &Guard{allowed: make(map[models.Role]bool, len(allowed))}
	for _, r := range allowed {
		g.allowed[r] = true
	}
	return g
}

// Check decides what to do with the current session state. Redirects are
// issued at most once per Guard; wrong-role users go to their own
// dashboard root rather than the login page.
func (g *Guard) Check(user *models.User, loading bool) Result {
	if loading {
		return Result{Decision: Wait}
	}
	if user == nil {
		return g.redirectOnce(LoginPath)
	}
	if !g.allowed[user.Role] {
		return g.redirectOnce(user.Role.DashboardPath())
	}
	return Result{Decision: Allow}
}

func (g *Guard) redirectOnce(target string) Result {
	if g.redirected {
		return Result{Decision: Settled}
	}
	g.redirected = true
	return Result{Decision: Redirect, Target: target}
}
