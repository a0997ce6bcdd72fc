package grant

import (
	"strings"

	"github.com/jedi-knights/identity-service/pkg/authserver/oautherr"
	"github.com/jedi-knights/identity-service/pkg/authserver/store"
)

// ParseScope splits a space-separated scope string into its tokens,
// per section 10's definition of scope.
func ParseScope(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// JoinScope re-joins scope tokens into the space-separated wire form.
func JoinScope(tokens []string) string {
	return strings.Join(tokens, " ")
}

// resolveScope validates a requested scope string against a client's
// allowed scopes, defaulting to the client's configured default scope
// when the request omits one, per section 4.8 step 3. It returns
// invalid_scope if the requested scope is not a subset of the client's
// allowed scopes.
func resolveScope(requested string, client *store.Client) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return client.DefaultScope, nil
	}
	tokens := ParseScope(requested)
	if !client.ScopeSubset(tokens) {
		return "", oautherr.New(oautherr.InvalidScope, "requested scope exceeds client's allowed scopes")
	}
	return JoinScope(tokens), nil
}

// scopeSubsetOf reports whether every token in requested also appears in
// granted, the rule the refresh grant uses to narrow (never widen) scope
// on rotation per section 4.8 step 5.
func scopeSubsetOf(requested, granted string) bool {
	grantedSet := make(map[string]bool)
	for _, tok := range ParseScope(granted) {
		grantedSet[tok] = true
	}
	for _, tok := range ParseScope(requested) {
		if !grantedSet[tok] {
			return false
		}
	}
	return true
}
