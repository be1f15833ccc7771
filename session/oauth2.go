package session

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenSource adapts the store to golang.org/x/oauth2 so the stored bearer
// token can feed oauth2-aware HTTP stacks.
func TokenSource(store Store) oauth2.TokenSource {
	return tokenSource{store: store}
}

type tokenSource struct {
	store Store
}

func (t tokenSource) Token() (*oauth2.Token, error) {
	current := t.store.Current()
	if !current.Authenticated() {
		return nil, errors.New("[TokenSource] no authenticated session")
	}
	return &oauth2.Token{
		AccessToken: current.AccessToken,
		TokenType:   "Bearer",
	}, nil
}
