package mux

import (
	"net/http"
	"sync"
)

// Authorizer evaluates the authorization rules of a matched route.
type Authorizer interface {
	Authorize(r *http.Request, rules []string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(r *http.Request, rules []string) bool

// Authorize calls f(r, rules).
func (f AuthorizerFunc) Authorize(r *http.Request, rules []string) bool {
	return f(r, rules)
}

// RulePredicate decides a single rule for a request.
type RulePredicate func(r *http.Request) bool

// RuleAuthorizer grants access when every rule of the route is known and
// its predicate holds. Unknown rules deny.
type RuleAuthorizer struct {
	mu    sync.RWMutex
	rules map[string]RulePredicate
}

// NewRuleAuthorizer returns an authorizer without rules.
func NewRuleAuthorizer() *RuleAuthorizer {
	return &RuleAuthorizer{rules: make(map[string]RulePredicate)}
}

// Rule registers or replaces the predicate for name.
func (a *RuleAuthorizer) Rule(name string, fn RulePredicate) *RuleAuthorizer {
	a.mu.Lock()
	a.rules[name] = fn
	a.mu.Unlock()
	return a
}

// Authorize implements Authorizer.
func (a *RuleAuthorizer) Authorize(r *http.Request, rules []string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, name := range rules {
		fn, ok := a.rules[name]
		if !ok || !fn(r) {
			return false
		}
	}
	return true
}
