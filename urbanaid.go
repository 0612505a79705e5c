// Package urbanaid is the Go client SDK for the UrbanAid booking
// marketplace: session lifecycle, role-gated navigation authorization,
// typed REST access, and export-job polling.
package urbanaid

import (
	"context"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/urbanaid/urbanaid-go/pkg/api"
	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/export"
	"github.com/urbanaid/urbanaid-go/pkg/keyring"
	"github.com/urbanaid/urbanaid-go/pkg/routes"
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

type Config struct {
	// BaseURL is the API origin, e.g. "https://urbanaid.example".
	BaseURL string

	// Keyring overrides the runtime-selected persistence backend.
	Keyring keyring.Keyring

	HTTPClient *http.Client
	UserAgent  string
	Logger     logr.Logger
	Runtime    RuntimeConfig
}

// Client wires the session manager, REST client, and navigation guard
// over one durable keyring.
type Client struct {
	session *session.Manager
	api     *api.Client
	guard   *routes.Guard
	logger  logr.Logger

	closeResource func() error
}

func New(config Config) (*Client, error) {
	closeResource, resolvedConfig, err := config.initialize(context.Background())
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(session.ManagerConfig{
		Keyring: resolvedConfig.Keyring,
		Logger:  resolvedConfig.Logger.WithName("session"),
	})
	if err != nil {
		_ = closeResource()
		return nil, err
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    resolvedConfig.BaseURL,
		Session:    manager,
		HTTPClient: resolvedConfig.HTTPClient,
		UserAgent:  resolvedConfig.UserAgent,
		Logger:     resolvedConfig.Logger.WithName("api"),
	})
	if err != nil {
		_ = closeResource()
		return nil, err
	}
	manager.SetAuthenticator(apiClient)

	if err := manager.IdentityStore().Load(context.Background()); err != nil {
		_ = closeResource()
		return nil, err
	}

	return &Client{
		session:       manager,
		api:           apiClient,
		guard:         routes.NewGuard(manager, manager.IdentityStore(), resolvedConfig.Logger.WithName("guard")),
		logger:        resolvedConfig.Logger,
		closeResource: closeResource,
	}, nil
}

// Session exposes the session manager for direct token/identity access.
func (c *Client) Session() *session.Manager {
	return c.session
}

// API exposes the typed REST client.
func (c *Client) API() *api.Client {
	return c.api
}

// Guard exposes the navigation authorization guard.
func (c *Client) Guard() *routes.Guard {
	return c.guard
}

// Login establishes a session and returns the identity plus the route the
// user should land on: the requested return-to path when one was carried
// through the login redirect, else the role dashboard.
func (c *Client) Login(ctx context.Context, credentials session.Credentials, returnTo string) (session.Identity, string, error) {
	identity, err := c.session.Login(ctx, credentials)
	if err != nil {
		return session.Identity{}, "", err
	}

	if returnTo != "" {
		return identity, returnTo, nil
	}

	dashboard, _ := routes.DashboardFor(identity)
	return identity, dashboard, nil
}

// Logout clears the session and signals navigation to the neutral landing
// route. Idempotent.
func (c *Client) Logout(ctx context.Context) (string, error) {
	if err := c.session.Logout(ctx); err != nil {
		return "", err
	}
	return routes.RouteHome, nil
}

// Authorize evaluates a navigation attempt against the guard.
func (c *Client) Authorize(ctx context.Context, target routes.Target) routes.Decision {
	return c.guard.Evaluate(ctx, target)
}

type ExportOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

// exportSubject resolves the provider subject id from the authenticated
// identity, never from caller-supplied routing state.
func (c *Client) exportSubject() (int, error) {
	identity := c.session.IdentityStore().Identity()
	if identity.Role != session.RoleProvider || identity.Provider.ID == nil {
		return 0, oerrors.New(oerrors.CodeExportFailed, "Only providers can export closed bookings!!")
	}
	return *identity.Provider.ID, nil
}

// RequestClosedBookingsExport kicks off the closed-bookings CSV export
// without waiting for it.
func (c *Client) RequestClosedBookingsExport(ctx context.Context) (export.Job, error) {
	provID, err := c.exportSubject()
	if err != nil {
		return export.Job{}, err
	}
	return c.api.ProviderRequestClosedBookingsExport(ctx, provID)
}

// ExportClosedBookings requests the provider's closed-bookings CSV export
// and polls the job until it finishes.
func (c *Client) ExportClosedBookings(ctx context.Context, opts ExportOptions) (export.Report, error) {
	provID, err := c.exportSubject()
	if err != nil {
		return export.Report{}, err
	}

	job, err := c.api.ProviderRequestClosedBookingsExport(ctx, provID)
	if err != nil {
		return export.Report{}, err
	}

	poller, err := export.NewPoller(export.PollerConfig{
		Status:      c.api.ProviderExportStatus(provID),
		Interval:    opts.Interval,
		MaxAttempts: opts.MaxAttempts,
		Logger:      c.logger.WithName("export"),
	})
	if err != nil {
		return export.Report{}, err
	}

	return poller.Wait(ctx, job.ID)
}

func (c *Client) Close() error {
	if c == nil || c.closeResource == nil {
		return nil
	}

	err := c.closeResource()
	c.closeResource = nil
	if err != nil {
		return oerrors.Wrap(oerrors.CodeUnknown, "failed to close client resources", err)
	}
	return nil
}
