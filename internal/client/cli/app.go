package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/client/config"
	"github.com/dmitrijs2005/secureguard/internal/client/login"
	"github.com/dmitrijs2005/secureguard/internal/client/remember"
	"github.com/dmitrijs2005/secureguard/internal/client/validate"
	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/metrics"
	"github.com/dmitrijs2005/secureguard/internal/netx"
)

// screen is the part of login.Controller the terminal drives.
type screen interface {
	Start(ctx context.Context)
	Submit(ctx context.Context, form login.Form) login.Outcome
	FederatedSignIn(ctx context.Context) login.Outcome
	RecoverPassword(ctx context.Context, email string) login.Outcome
	SignUp() login.Outcome
	State() login.State
	Destination() login.Destination
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	screen   screen
	remember *remember.Store
	reader   *bufio.Reader
	out      io.Writer

	// Form state as the user sees it.
	email      string
	password   string
	rememberMe bool
	disabled   bool

	metricsSrv *http.Server
	closers    []closeFunc
}

// NewApp wires the login controller with the backends selected by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat})

	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	store, closePrefs, err := openPrefs(ctx, c.PrefsPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closePrefs)
	a.remember = remember.NewStore(store)

	provider, err := newIdentity(c, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	directory, closeRoles, err := newRoles(ctx, c)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeRoles)

	flow, platform := newFederated(c, a.out, logger)

	ctrl, err := login.New(login.Dependencies{
		Identity:         provider,
		Roles:            directory,
		Federated:        flow,
		Platform:         platform,
		Remember:         a.remember,
		Password:         validate.PasswordPolicy{MinLength: c.PasswordMinLength}.Predicate(),
		Connectivity:     netx.NewInterfaceChecker(),
		Logger:           logger,
		SignInTimeout:    c.SignInTimeout,
		LookupTimeout:    c.LookupTimeout,
		FederatedTimeout: c.FederatedTimeout,
	}, a, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.screen = ctrl

	return a, nil
}

// Run shows the login screen and blocks until the user leaves it.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.config.MetricsAddr != "" {
		a.startMetrics(ctx)
	}

	printlnFn("Welcome to SecureGuard (type 'help' for commands)")
	a.screen.Start(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) startMetrics(ctx context.Context) {
	a.metricsSrv = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info(ctx, "serving metrics", "address", a.config.MetricsAddr)
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(ctx, "metrics server stopped", "error", err)
		}
	}()
}

// Close releases every backend opened by NewApp.
func (a *App) Close() {
	ctx := context.Background()
	if a.metricsSrv != nil {
		sctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_ = a.metricsSrv.Shutdown(sctx)
		cancel()
		a.metricsSrv = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) done() bool {
	return a.screen.State() == login.Routed
}
