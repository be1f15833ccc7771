// Package nav expresses navigation as intents. The SDK never performs
// navigation itself; it hands targets to whatever presentation layer hosts it.
package nav

// Intent is a navigation request: a target route plus an optional reason that
// the target page may surface to the user.
type Intent struct {
	Route  string
	Reason string
	// Params carries route state, e.g. the pending email for a verification page.
	Params map[string]string
}

// Navigator is implemented by the hosting presentation layer.
type Navigator interface {
	// CurrentPath returns the route the user is currently on.
	CurrentPath() string
	// Navigate requests a transition to the intent's route.
	Navigate(intent Intent)
}

// NopNavigator discards all navigation and reports an empty current path.
type NopNavigator struct{}

func (NopNavigator) CurrentPath() string { return "" }
func (NopNavigator) Navigate(Intent)     {}

// Notifier receives synchronous user-facing messages (the browser client used
// blocking alerts for these).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }
