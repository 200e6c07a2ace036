// Package mail provides the mail-search alert source: given a search
// query it returns the subject lines of matching messages. The concrete
// implementation talks to the Gmail REST API.
package mail

import (
	"context"
)

// Searcher defines the interface for searching mail by query string.
// Implementations return subject lines only; the digest consumes nothing
// else from a message.
type Searcher interface {
	Subjects(ctx context.Context, query string) ([]string, error)
}

// TokenProvider defines the interface for obtaining OAuth2 access tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider wraps an already-minted access token. Useful for
// short-lived invocations where the hosting environment supplies a token.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a TokenProvider that always returns tok.
func NewStaticTokenProvider(tok string) *StaticTokenProvider {
	return &StaticTokenProvider{token: tok}
}

// Token implements TokenProvider.
func (p *StaticTokenProvider) Token(context.Context) (string, error) {
	return p.token, nil
}
