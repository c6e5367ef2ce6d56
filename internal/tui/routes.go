package tui

// Screen names a top-level view.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenLogin     Screen = "login"
	ScreenSignup    Screen = "signup"
	ScreenDashboard Screen = "dashboard"
	ScreenInventory Screen = "inventory"
)

// Route describes who may see a screen.
type Route struct {
	Screen        Screen
	Title         string
	RequiresAuth  bool
	RequiresGuest bool
	RedirectTo    Screen // non-empty for alias routes
}

var routes = map[Screen]Route{
	ScreenHome:      {Screen: ScreenHome, RedirectTo: ScreenDashboard},
	ScreenDashboard: {Screen: ScreenDashboard, Title: "대시보드", RequiresAuth: true},
	ScreenLogin:     {Screen: ScreenLogin, Title: "로그인", RequiresGuest: true},
	ScreenSignup:    {Screen: ScreenSignup, Title: "회원가입", RequiresGuest: true},
	ScreenInventory: {Screen: ScreenInventory, Title: "재고 관리", RequiresAuth: true},
}

// RouteFor returns the route registered for s.
func RouteFor(s Screen) (Route, bool) {
	r, ok := routes[s]
	return r, ok
}

// Resolve applies redirects and guards and returns the screen to show when
// navigating to target. Unknown screens resolve like home.
func Resolve(target Screen, authenticated bool) Screen {
	r, ok := routes[target]
	if !ok {
		r = routes[ScreenHome]
	}
	if r.RedirectTo != "" {
		r = routes[r.RedirectTo]
	}

	switch {
	case r.RequiresAuth && !authenticated:
		return ScreenLogin
	case r.RequiresGuest && authenticated:
		return ScreenDashboard
	}
	return r.Screen
}
