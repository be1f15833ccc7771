package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/session/storefakes"
)

func TestTokenSourceReturnsBearerToken(t *testing.T) {
	store := storefakes.NewFakeStore()
	require.NoError(t, store.Save(testSession()))

	tok, err := session.TokenSource(store).Token()
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
}

func TestTokenSourceFailsWhenUnauthenticated(t *testing.T) {
	store := storefakes.NewFakeStore()

	_, err := session.TokenSource(store).Token()
	require.Error(t, err)
}
