package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		target Screen
		authed bool
		want   Screen
	}{
		{"home redirects to dashboard", ScreenHome, true, ScreenDashboard},
		{"home as guest lands on login", ScreenHome, false, ScreenLogin},
		{"dashboard requires auth", ScreenDashboard, false, ScreenLogin},
		{"dashboard when signed in", ScreenDashboard, true, ScreenDashboard},
		{"inventory requires auth", ScreenInventory, false, ScreenLogin},
		{"inventory when signed in", ScreenInventory, true, ScreenInventory},
		{"login for guests", ScreenLogin, false, ScreenLogin},
		{"login when signed in", ScreenLogin, true, ScreenDashboard},
		{"signup for guests", ScreenSignup, false, ScreenSignup},
		{"signup when signed in", ScreenSignup, true, ScreenDashboard},
		{"unknown screen", Screen("nope"), true, ScreenDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.target, tt.authed))
		})
	}
}

func TestRouteFor(t *testing.T) {
	r, ok := RouteFor(ScreenInventory)
	assert.True(t, ok)
	assert.True(t, r.RequiresAuth)
	assert.NotEmpty(t, r.Title)

	_, ok = RouteFor(Screen("nope"))
	assert.False(t, ok)
}
