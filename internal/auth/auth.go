// Package auth exposes the OAuth token contract consumed by the remote
// adapter. Token refresh and expiry handling live outside this module.
package auth

import (
	"context"
	"os"
	"strings"
)

// EnvToken is the environment variable consulted when the config carries
// no token.
const EnvToken = "DIDA_TOKEN"

// TokenSource yields a usable bearer token, or "" when the user is not
// authenticated. Implementations must not block on interactive flows.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed-token source.
type Static string

// Token implements TokenSource.
func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// FromConfig builds a token source from the configured token, falling back
// to the DIDA_TOKEN environment variable.
func FromConfig(configured string) TokenSource {
	tok := strings.TrimSpace(configured)
	if tok == "" {
		tok = strings.TrimSpace(os.Getenv(EnvToken))
	}
	return Static(tok)
}
