package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/api"
	"github.com/nubarte/marketplace-client/auth"
	"github.com/nubarte/marketplace-client/idle"
	"github.com/nubarte/marketplace-client/internal/config"
	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/sessioncheck"
)

// app wires the full client stack for the CLI: encrypted credential store,
// authenticating transport, API client, inactivity monitor, session validator,
// and the auth orchestrator on top.
type app struct {
	cfg       config.Config
	store     *session.FileStore
	service   *auth.Service
	navigator *cliNavigator
	stopWatch func()
}

// cliNavigator records route intents. The CLI has no pages to move between, so
// navigation surfaces as log lines, and the current path tells the transport
// which error-handling rules apply.
type cliNavigator struct {
	lock sync.Mutex
	path string
}

func (n *cliNavigator) CurrentPath() string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.path
}

func (n *cliNavigator) Navigate(intent nav.Intent) {
	n.lock.Lock()
	n.path = intent.Route
	n.lock.Unlock()

	event := log.Debug().Str("route", intent.Route)
	if intent.Reason != "" {
		event = event.Str("reason", intent.Reason)
	}
	event.Msg("navigate")
}

// SetPath pins the current path, mirroring where a browser user would be.
func (n *cliNavigator) SetPath(path string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.path = path
}

func notifyStdout(message string) {
	fmt.Println(message)
}

func newApp(configPath string) (*app, error) {
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.NewFromFile(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.New()
	}

	store, err := session.NewFileStore(cfg.GetCredentialsFile())
	if err != nil {
		return nil, err
	}

	navigator := &cliNavigator{path: nav.RouteLogin}
	notifier := nav.NotifierFunc(notifyStdout)

	transport := api.NewAuthenticator(store, navigator, http.DefaultTransport)
	httpClient := &http.Client{Transport: transport, Timeout: cfg.GetHTTPTimeout()}
	apiClient := api.NewClient(cfg.GetBaseURL(), api.WithHTTPClient(httpClient))

	// The service is created after the monitor and validator, but their
	// callbacks need it. Late-bound through the pointer.
	var service *auth.Service

	monitor := idle.NewMonitor(cfg.GetInactivityBudget(), notifier, func() {
		service.TerminateSession()
		navigator.Navigate(nav.Intent{Route: nav.RouteLogin, Reason: nav.ReasonInactivity})
	})
	validator := sessioncheck.NewValidator(
		apiClient,
		cfg.GetSessionCheckInterval(),
		notifier,
		func() bool { return store.IsAuthenticated() },
		func(reason string) {
			service.TerminateSession()
			navigator.Navigate(nav.Intent{Route: nav.RouteLogin, Reason: reason})
		},
	)

	service, err = auth.NewService(auth.Deps{
		API:       apiClient,
		Store:     store,
		Monitor:   monitor,
		Validator: validator,
		Navigator: navigator,
		Notifier:  notifier,
	},
		auth.WithCountdownBudget(cfg.GetCodeCountdown()),
		auth.WithResendCooldown(cfg.GetResendCooldown()),
	)
	if err != nil {
		return nil, err
	}

	// Ending the session from a transport-detected 401 must tear down the
	// monitor and validator too, not just the stored token.
	transport.SetSessionEndHook(func(string) {
		service.TerminateSession()
	})

	a := &app{cfg: cfg, store: store, service: service, navigator: navigator}

	// Another process logging out invalidates this one's session view.
	stopWatch, err := store.Watch(func() {
		service.TerminateSession()
	})
	if err != nil {
		log.Debug().Err(err).Msg("credential file watch unavailable")
	} else {
		a.stopWatch = stopWatch
	}

	if store.IsAuthenticated() {
		navigator.SetPath(nav.RouteDashboard)
	}
	return a, nil
}

func (a *app) Close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
}
