package login

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/client/federated"
	"github.com/dmitrijs2005/secureguard/internal/client/identity"
	"github.com/dmitrijs2005/secureguard/internal/client/remember"
	"github.com/dmitrijs2005/secureguard/internal/client/validate"
	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/metrics"
	"github.com/dmitrijs2005/secureguard/internal/roles"
)

const (
	DefaultSignInTimeout = 30 * time.Second
	DefaultLookupTimeout = 15 * time.Second

	// DefaultFederatedTimeout bounds the browser round trip.
	DefaultFederatedTimeout = 3 * time.Minute
)

// PlatformChecker reports whether federated sign-in can work on this device.
type PlatformChecker interface {
	IsFederatedSignInAvailable() bool
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Identity  identity.Provider
	Roles     roles.Directory
	Federated federated.SignInUI
	Platform  PlatformChecker
	Remember  *remember.Store
	// Password is the complexity predicate; nil means validate.DefaultPolicy.
	Password     func(string) bool
	Connectivity validate.Connectivity
	Logger       logging.Logger

	SignInTimeout    time.Duration
	LookupTimeout    time.Duration
	FederatedTimeout time.Duration
}

// Controller runs one login screen. At most one action is in flight at a
// time; a second one gets ErrBusy.
type Controller struct {
	deps      Dependencies
	view      View
	nav       Navigator
	validator *validate.Validator
	log       logging.Logger

	mu       sync.Mutex
	state    State
	dest     Destination
	busy     bool
	disabled bool
}

func New(deps Dependencies, view View, nav Navigator) (*Controller, error) {
	switch {
	case deps.Identity == nil:
		return nil, errors.New("login: identity provider is required")
	case deps.Roles == nil:
		return nil, errors.New("login: role directory is required")
	case deps.Federated == nil:
		return nil, errors.New("login: federated sign-in UI is required")
	case deps.Platform == nil:
		return nil, errors.New("login: platform checker is required")
	case deps.Remember == nil:
		return nil, errors.New("login: remember store is required")
	case deps.Connectivity == nil:
		return nil, errors.New("login: connectivity check is required")
	case view == nil || nav == nil:
		return nil, errors.New("login: view and navigator are required")
	}
	if deps.SignInTimeout <= 0 {
		deps.SignInTimeout = DefaultSignInTimeout
	}
	if deps.LookupTimeout <= 0 {
		deps.LookupTimeout = DefaultLookupTimeout
	}
	if deps.FederatedTimeout <= 0 {
		deps.FederatedTimeout = DefaultFederatedTimeout
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Controller{
		deps:      deps,
		view:      view,
		nav:       nav,
		validator: validate.New(deps.Password, deps.Connectivity),
		log:       log.With("module", "login"),
	}, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Destination returns where the screen routed to, or None.
func (c *Controller) Destination() Destination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dest
}

// Disabled reports whether the platform gate froze the screen.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Start restores the remembered login and runs the platform gate.
func (c *Controller) Start(ctx context.Context) {
	l, err := c.deps.Remember.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "could not load remembered login", "error", err)
		l = remember.Login{}
	}
	if !l.RememberMe {
		l.Email, l.Password = "", ""
	}
	c.view.Prefill(l)

	if !c.deps.Platform.IsFederatedSignInAvailable() {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()

		c.log.Warn(ctx, "federated sign-in unavailable, screen disabled")
		c.view.ShowInfo(MsgPlatformMissing)
		c.view.DisableControls()
	}
}

// begin claims the single in-flight slot.
func (c *Controller) begin(next State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.disabled:
		return ErrScreenDisabled
	case c.state == Routed:
		return ErrRouted
	case c.busy:
		return ErrBusy
	}
	c.busy = true
	c.state = next
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Controller) rejected(err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Outcome{State: c.state, Destination: c.dest, Err: err}
}

func (c *Controller) idle(err error) Outcome {
	c.setState(Idle)
	return Outcome{State: Idle, Err: err}
}

func (c *Controller) route(d Destination) Outcome {
	c.mu.Lock()
	c.state = Routed
	c.dest = d
	c.mu.Unlock()

	c.nav.Navigate(d)
	return Outcome{State: Routed, Destination: d}
}

// Submit runs a password login attempt.
func (c *Controller) Submit(ctx context.Context, form Form) Outcome {
	if err := c.begin(Validating); err != nil {
		countOutcome(metrics.MethodPassword, err)
		return c.rejected(err)
	}
	defer c.end()
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.MethodPassword).Inc()

	// Written on every press, before the outcome is known.
	err := c.deps.Remember.Save(ctx, remember.Login{
		RememberMe: form.RememberMe,
		Email:      form.Email,
		Password:   form.Password,
	})
	if err != nil {
		c.log.Warn(ctx, "could not save remembered login", "error", err)
	}

	c.view.ClearFieldErrors()
	if res := c.validator.Check(form.Email, form.Password); res != validate.Valid {
		c.showValidation(res)
		return c.finish(metrics.MethodPassword, c.idle(&ValidationError{Result: res}))
	}

	email := strings.ToLower(form.Email)
	c.setState(Submitting)
	c.view.ShowLoading()
	sctx, cancel := context.WithTimeout(ctx, c.deps.SignInTimeout)
	principal, err := c.deps.Identity.SignInWithPassword(sctx, email, form.Password)
	cancel()
	c.view.HideLoading()

	if err != nil {
		authErr := asAuthError(err)
		c.log.Info(ctx, "password sign-in failed", "code", authErr.Code.String(), "error", err)
		c.showAuthError(authErr.Code)
		return c.finish(metrics.MethodPassword, c.idle(authErr))
	}

	if !principal.EmailVerified {
		c.log.Info(ctx, "email not verified", "uid", principal.UID)
		return c.finish(metrics.MethodPassword, c.route(AccountVerification))
	}

	return c.finish(metrics.MethodPassword, c.lookup(ctx, principal))
}

// FederatedSignIn runs the federated sub-flow.
func (c *Controller) FederatedSignIn(ctx context.Context) Outcome {
	if err := c.begin(Submitting); err != nil {
		countOutcome(metrics.MethodFederated, err)
		return c.rejected(err)
	}
	defer c.end()
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.MethodFederated).Inc()

	if !c.deps.Connectivity.IsOnline() {
		c.view.ShowInfo(MsgOffline)
		return c.finish(metrics.MethodFederated, c.idle(&ValidationError{Result: validate.Offline}))
	}

	fctx, cancel := context.WithTimeout(ctx, c.deps.FederatedTimeout)
	token, err := c.deps.Federated.SignIn(fctx)
	cancel()
	if err != nil {
		canceled := errors.Is(err, federated.ErrCanceled)
		c.log.Info(ctx, "federated sign-in did not complete", "canceled", canceled, "error", err)
		c.view.ShowToast(MsgAuthFailed)
		return c.finish(metrics.MethodFederated, c.idle(&FederatedSignInError{Canceled: canceled, Err: err}))
	}

	c.view.ShowLoading()
	sctx, cancel := context.WithTimeout(ctx, c.deps.SignInTimeout)
	principal, err := c.deps.Identity.SignInWithCredential(sctx, identity.Credential{
		ProviderID: identity.ProviderGoogle,
		IDToken:    token,
	})
	cancel()
	c.view.HideLoading()

	if err != nil {
		c.log.Info(ctx, "credential sign-in failed", "error", err)
		c.view.ShowToast(MsgAuthFailed)
		return c.finish(metrics.MethodFederated, c.idle(&FederatedSignInError{Err: asAuthError(err)}))
	}

	c.view.ShowToast(MsgAuthSucceeded)
	return c.finish(metrics.MethodFederated, c.lookup(ctx, principal))
}

// lookup decides between the parent and child homes.
func (c *Controller) lookup(ctx context.Context, principal *identity.Principal) Outcome {
	c.setState(AwaitingRoleLookup)
	c.view.ShowLoading()

	lctx, cancel := context.WithTimeout(ctx, c.deps.LookupTimeout)
	started := time.Now()
	found, err := c.deps.Roles.FindByEmailInPartition(lctx, roles.PartitionParents, strings.ToLower(principal.Email))
	cancel()
	c.view.HideLoading()

	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case found:
		result = "hit"
	}
	metrics.RoleLookupDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())

	if err != nil {
		c.log.Warn(ctx, "role lookup failed", "uid", principal.UID, "canceled", errors.Is(err, roles.ErrLookupCanceled), "error", err)
		c.view.ShowToast(MsgLookupFailed)
		return c.idle(&LookupError{Err: err})
	}

	if found {
		return c.route(ParentHome)
	}
	return c.route(ChildHome)
}

// RecoverPassword asks the provider to send a reset email. The result is not
// reported beyond a neutral toast.
func (c *Controller) RecoverPassword(ctx context.Context, email string) Outcome {
	if err := c.begin(Idle); err != nil {
		return c.rejected(err)
	}
	defer c.end()

	if !c.validator.IsValidEmail(email) {
		c.view.ShowToast(MsgEnterValidEmail)
		return c.idle(&ValidationError{Result: validate.InvalidEmail})
	}
	if !c.deps.Connectivity.IsOnline() {
		c.view.ShowInfo(MsgOffline)
		return c.idle(&ValidationError{Result: validate.Offline})
	}

	sctx, cancel := context.WithTimeout(ctx, c.deps.SignInTimeout)
	err := c.deps.Identity.SendPasswordResetEmail(sctx, strings.ToLower(email))
	cancel()
	if err != nil {
		c.log.Info(ctx, "password reset request failed", "error", err)
	}
	c.view.ShowToast(MsgResetRequested)
	return c.idle(err)
}

// SignUp leaves for account creation.
func (c *Controller) SignUp() Outcome {
	if err := c.begin(Idle); err != nil {
		return c.rejected(err)
	}
	defer c.end()
	return c.route(ModeSelection)
}

func (c *Controller) showValidation(res validate.Result) {
	switch res {
	case validate.InvalidEmail:
		c.view.SetFieldError(FieldEmail, MsgEnterValidEmail)
	case validate.InvalidPassword:
		c.view.SetFieldError(FieldPassword, MsgEnterValidPassword)
	case validate.Offline:
		c.view.ShowInfo(MsgOffline)
	}
}

func (c *Controller) showAuthError(code identity.ErrorCode) {
	switch code {
	case identity.CodeInvalidEmail:
		c.view.SetFieldError(FieldEmail, MsgEnterValidEmail)
	case identity.CodeUserNotFound:
		c.view.SetFieldError(FieldEmail, MsgEmailNotRegistered)
	case identity.CodeWrongPassword:
		c.view.SetFieldError(FieldPassword, MsgWrongPassword)
	default:
		c.view.ShowToast(MsgAuthFailed)
	}
}

// asAuthError returns err as an AuthError, wrapping transport failures as
// CodeUnknown.
func asAuthError(err error) *identity.AuthError {
	var ae *identity.AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &identity.AuthError{Code: identity.CodeUnknown, Err: err}
}

func (c *Controller) finish(method string, o Outcome) Outcome {
	metrics.LoginOutcomesTotal.WithLabelValues(method, outcomeLabel(o)).Inc()
	return o
}

func countOutcome(method string, err error) {
	metrics.LoginOutcomesTotal.WithLabelValues(method, outcomeLabel(Outcome{Err: err})).Inc()
}

func outcomeLabel(o Outcome) string {
	var (
		ve *ValidationError
		le *LookupError
	)
	switch {
	case o.Destination == ParentHome:
		return "parent"
	case o.Destination == ChildHome:
		return "child"
	case o.Destination == AccountVerification:
		return "verification"
	case errors.As(o.Err, &ve) && ve.Result == validate.Offline:
		return "offline"
	case errors.As(o.Err, &ve):
		return "invalid_input"
	case errors.As(o.Err, &le):
		return "lookup_error"
	case errors.Is(o.Err, ErrBusy):
		return "busy"
	case errors.Is(o.Err, ErrScreenDisabled), errors.Is(o.Err, ErrRouted):
		return "disabled"
	default:
		return "auth_error"
	}
}
