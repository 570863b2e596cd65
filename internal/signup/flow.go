// internal/signup/flow.go
package signup

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
)

// Step identifies a sign-up flow state.
type Step string

const (
	// StepEmail collects name+email and waits for verification.
	StepEmail Step = "email"
	// StepPassword collects credentials after the email is verified.
	StepPassword Step = "password"
	// StepSuccess is terminal: registration completed.
	StepSuccess Step = "success"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation failures surfaced by the flow. These never reach the
// backend.
var (
	ErrNameEmailRequired = errors.New("name and email are required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrTermsNotAccepted  = errors.New("terms must be accepted")
	ErrResendNotReady    = errors.New("resend not available yet")
	ErrWrongStep         = errors.New("operation not valid in current step")
)

// Flow drives the three-step sign-up state machine. Two independent
// repeating timers run while the flow sits in StepEmail with a
// verification pending: the status poller and the resend countdown.
// Both are owned by the flow and stop on every exit path out of
// StepEmail, including Close. Polls run serially inside the poller
// loop, so no two polls are ever in flight at once.
type Flow struct {
	auth           *api.AuthAPI
	pollInterval   time.Duration
	resendCooldown time.Duration
	countdownTick  time.Duration
	logger         *logrus.Logger

	mu               sync.Mutex
	step             Step
	name             string
	email            string
	verificationSent bool
	emailVerified    bool
	resendWait       int
	lastErr          string

	pollCancel      context.CancelFunc
	countdownCancel context.CancelFunc
	wg              sync.WaitGroup
}

// NewFlow creates a sign-up flow with the configured timer intervals.
func NewFlow(auth *api.AuthAPI, cfg *config.Config, logger *logrus.Logger) *Flow {
	return &Flow{
		auth:           auth,
		pollInterval:   cfg.Signup.PollInterval,
		resendCooldown: cfg.Signup.ResendCooldown,
		countdownTick:  time.Second,
		logger:         logger,
		step:           StepEmail,
	}
}

// Step returns the current state.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Email returns the address the flow is registering.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// VerificationSent reports whether the verification mail went out.
func (f *Flow) VerificationSent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verificationSent
}

// ResendWait returns the seconds left until resend is permitted.
func (f *Flow) ResendWait() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resendWait
}

// LastError returns the current error message, empty after the last
// successful operation.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SubmitEmail validates name+email, requests verification, and on
// success enters the polling sub-state: the status poller and the
// resend countdown both start.
func (f *Flow) SubmitEmail(ctx context.Context, name, email string) error {
	f.mu.Lock()
	if f.step != StepEmail {
		f.mu.Unlock()
		return ErrWrongStep
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		f.lastErr = ErrNameEmailRequired.Error()
		f.mu.Unlock()
		return ErrNameEmailRequired
	}
	if !emailPattern.MatchString(email) {
		f.lastErr = ErrInvalidEmail.Error()
		f.mu.Unlock()
		return ErrInvalidEmail
	}
	f.mu.Unlock()

	if err := f.auth.RequestEmailVerification(ctx, email, name); err != nil {
		f.setError(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
	f.email = email
	f.verificationSent = true
	f.lastErr = ""
	f.startPollerLocked()
	f.startCountdownLocked()
	return nil
}

// Resend re-sends the verification mail. Only permitted once the
// countdown has reached zero; each send restarts it.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepEmail || !f.verificationSent {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.resendWait > 0 {
		f.mu.Unlock()
		return ErrResendNotReady
	}
	email := f.email
	f.mu.Unlock()

	if _, err := f.auth.ResendVerification(ctx, email); err != nil {
		f.setError(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = ""
	f.startCountdownLocked()
	return nil
}

// SubmitPassword validates the credentials and completes the
// registration, moving the flow to its terminal state.
func (f *Flow) SubmitPassword(ctx context.Context, password, confirm string, agreeTerms bool) error {
	f.mu.Lock()
	if f.step != StepPassword {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if len(password) < minPasswordLength {
		f.lastErr = ErrPasswordTooShort.Error()
		f.mu.Unlock()
		return ErrPasswordTooShort
	}
	if password != confirm {
		f.lastErr = ErrPasswordMismatch.Error()
		f.mu.Unlock()
		return ErrPasswordMismatch
	}
	if !agreeTerms {
		f.lastErr = ErrTermsNotAccepted.Error()
		f.mu.Unlock()
		return ErrTermsNotAccepted
	}
	req := api.CompleteRegistrationRequest{
		Email:    f.email,
		Password: password,
		Name:     f.name,
	}
	f.mu.Unlock()

	if err := f.auth.CompleteRegistration(ctx, req); err != nil {
		f.setError(err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepSuccess
	f.lastErr = ""
	return nil
}

// ChangeEmail returns from StepPassword to StepEmail, resetting both
// timers and all verification flags.
func (f *Flow) ChangeEmail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPassword {
		return ErrWrongStep
	}
	f.stopTimersLocked()
	f.step = StepEmail
	f.verificationSent = false
	f.emailVerified = false
	f.resendWait = 0
	f.lastErr = ""
	return nil
}

// Close tears the flow down: both timers are cancelled and no further
// tick is processed.
func (f *Flow) Close() {
	f.mu.Lock()
	f.stopTimersLocked()
	f.mu.Unlock()
	f.wg.Wait()
}

func (f *Flow) setError(err error) {
	f.mu.Lock()
	f.lastErr = err.Error()
	f.mu.Unlock()
}

func (f *Flow) stopTimersLocked() {
	if f.pollCancel != nil {
		f.pollCancel()
		f.pollCancel = nil
	}
	if f.countdownCancel != nil {
		f.countdownCancel()
		f.countdownCancel = nil
	}
}

// startPollerLocked launches the verification poller. The loop runs
// each poll to completion before waiting for the next tick; a tick
// arriving while a poll is still running is dropped, never stacked.
func (f *Flow) startPollerLocked() {
	if f.pollCancel != nil {
		f.pollCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.pollCancel = cancel

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ticker := time.NewTicker(f.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if f.poll(ctx) {
					return
				}
			}
		}
	}()
}

// poll asks the backend for the verification status once. It returns
// true when the poller should stop: either the email is verified and
// the flow advanced, or the flow already left StepEmail.
func (f *Flow) poll(ctx context.Context) bool {
	f.mu.Lock()
	email := f.email
	if f.step != StepEmail {
		f.mu.Unlock()
		return true
	}
	f.mu.Unlock()

	status, err := f.auth.VerificationStatus(ctx, email)
	if err != nil {
		if f.logger != nil {
			f.logger.WithField("email", email).WithError(err).Debug("verification poll failed")
		}
		return false
	}
	if !status.Verified {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepEmail {
		return true
	}
	f.emailVerified = true
	f.step = StepPassword
	f.lastErr = ""
	if f.countdownCancel != nil {
		f.countdownCancel()
		f.countdownCancel = nil
	}
	f.pollCancel = nil
	return true
}

// startCountdownLocked (re)starts the resend gate: one decrement per
// second from the configured cooldown down to zero.
func (f *Flow) startCountdownLocked() {
	if f.countdownCancel != nil {
		f.countdownCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.countdownCancel = cancel
	f.resendWait = int(f.resendCooldown / time.Second)

	tick := f.countdownTick
	if tick <= 0 {
		tick = time.Second
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.mu.Lock()
				if f.resendWait > 0 {
					f.resendWait--
				}
				done := f.resendWait == 0
				f.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}
