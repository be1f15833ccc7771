package nav_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nubarte/marketplace-client/nav"
)

func TestIsPassthroughPage(t *testing.T) {
	require.True(t, nav.IsPassthroughPage(nav.RouteLogin))
	require.True(t, nav.IsPassthroughPage(nav.RouteForbidden))
	require.True(t, nav.IsPassthroughPage(nav.RouteNotFound))
	require.True(t, nav.IsPassthroughPage(nav.RouteServerError))

	require.False(t, nav.IsPassthroughPage(nav.RouteDashboard))
	require.False(t, nav.IsPassthroughPage(nav.RouteTwoFactorVerify))
	require.False(t, nav.IsPassthroughPage("/orders"))
}
