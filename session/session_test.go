package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/session/storefakes"
)

func TestAuthenticatedFollowsTokenPresence(t *testing.T) {
	require.False(t, session.Session{}.Authenticated())
	require.True(t, session.Session{AccessToken: "tok"}.Authenticated())
}

func TestFakeStoreLegacyTokenAliasMatchesCanonical(t *testing.T) {
	store := storefakes.NewFakeStore()
	require.NoError(t, store.Save(testSession()))

	// The alias mirrors the canonical key, so both old and new readers agree.
	require.Equal(t, "tok-123", store.Current().AccessToken)
	require.True(t, store.IsAuthenticated())

	require.NoError(t, store.Clear())
	require.False(t, store.IsAuthenticated())
}
