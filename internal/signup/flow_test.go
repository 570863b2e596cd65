// internal/signup/flow_test.go
package signup

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/api/apitest"
	"github.com/your-org/storefront-client/internal/config"
)

func newTestFlow(t *testing.T, resendCooldown time.Duration) (*Flow, *apitest.Server) {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	authClient := api.NewClient(backend.AuthURL(), nil, logger, 5*time.Second)
	cfg := &config.Config{
		Signup: config.SignupConfig{
			PollInterval:   20 * time.Millisecond,
			ResendCooldown: resendCooldown,
		},
	}

	flow := NewFlow(api.NewAuthAPI(authClient), cfg, logger)
	flow.countdownTick = 10 * time.Millisecond
	t.Cleanup(flow.Close)
	return flow, backend
}

func TestSubmitEmailValidation(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)
	ctx := context.Background()

	require.ErrorIs(t, flow.SubmitEmail(ctx, "", "a@b.co"), ErrNameEmailRequired)
	require.ErrorIs(t, flow.SubmitEmail(ctx, "Jane", "   "), ErrNameEmailRequired)
	require.ErrorIs(t, flow.SubmitEmail(ctx, "Jane", "not-an-email"), ErrInvalidEmail)
	require.ErrorIs(t, flow.SubmitEmail(ctx, "Jane", "half@done"), ErrInvalidEmail)
	require.ErrorIs(t, flow.SubmitEmail(ctx, "Jane", "white space@a.co"), ErrInvalidEmail)

	assert.Equal(t, ErrInvalidEmail.Error(), flow.LastError())
	assert.False(t, flow.VerificationSent())
	assert.Zero(t, backend.RequestCount(""))
}

func TestSubmitEmailNormalizesInput(t *testing.T) {
	flow, _ := newTestFlow(t, time.Minute)

	require.NoError(t, flow.SubmitEmail(context.Background(), "  Jane  ", "  NEW@Example.COM "))

	assert.Equal(t, "new@example.com", flow.Email())
	assert.True(t, flow.VerificationSent())
	assert.Equal(t, StepEmail, flow.Step())
}

func TestPollerAdvancesToPasswordStep(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)

	require.NoError(t, flow.SubmitEmail(context.Background(), "Jane", "new@example.com"))
	backend.VerifyAfterChecks("new@example.com", 3)

	require.Eventually(t, func() bool {
		return flow.Step() == StepPassword
	}, 2*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, backend.RequestCount("verification-status"), 3)
}

func TestPollerStopsAfterAdvancing(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)

	require.NoError(t, flow.SubmitEmail(context.Background(), "Jane", "new@example.com"))
	backend.MarkVerified("new@example.com")

	require.Eventually(t, func() bool {
		return flow.Step() == StepPassword
	}, 2*time.Second, 10*time.Millisecond)

	polls := backend.RequestCount("verification-status")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, polls, backend.RequestCount("verification-status"))
}

func TestResendGatedByCountdown(t *testing.T) {
	flow, _ := newTestFlow(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, flow.SubmitEmail(ctx, "Jane", "new@example.com"))

	assert.Positive(t, flow.ResendWait())
	require.ErrorIs(t, flow.Resend(ctx), ErrResendNotReady)
}

func TestResendAvailableAfterCountdownAndRestartsIt(t *testing.T) {
	flow, backend := newTestFlow(t, 2*time.Second)
	flow.countdownTick = 100 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, flow.SubmitEmail(ctx, "Jane", "new@example.com"))
	assert.Equal(t, 2, flow.ResendWait())

	require.Eventually(t, func() bool {
		return flow.ResendWait() == 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, flow.Resend(ctx))
	assert.Equal(t, 1, backend.RequestCount("resend-verification"))
	assert.Positive(t, flow.ResendWait())
}

func TestResendBeforeSubmitIsWrongStep(t *testing.T) {
	flow, _ := newTestFlow(t, time.Minute)
	require.ErrorIs(t, flow.Resend(context.Background()), ErrWrongStep)
}

func TestSubmitPasswordValidation(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)
	ctx := context.Background()

	require.ErrorIs(t, flow.SubmitPassword(ctx, "longenough1", "longenough1", true), ErrWrongStep)

	require.NoError(t, flow.SubmitEmail(ctx, "Jane", "new@example.com"))
	backend.MarkVerified("new@example.com")
	require.Eventually(t, func() bool {
		return flow.Step() == StepPassword
	}, 2*time.Second, 10*time.Millisecond)

	require.ErrorIs(t, flow.SubmitPassword(ctx, "short", "short", true), ErrPasswordTooShort)
	require.ErrorIs(t, flow.SubmitPassword(ctx, "longenough1", "different1", true), ErrPasswordMismatch)
	require.ErrorIs(t, flow.SubmitPassword(ctx, "longenough1", "longenough1", false), ErrTermsNotAccepted)
	assert.Zero(t, backend.RequestCount("complete-registration"))

	require.NoError(t, flow.SubmitPassword(ctx, "longenough1", "longenough1", true))
	assert.Equal(t, StepSuccess, flow.Step())
	assert.Empty(t, flow.LastError())
}

func TestChangeEmailResetsFlow(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)
	ctx := context.Background()

	require.ErrorIs(t, flow.ChangeEmail(), ErrWrongStep)

	require.NoError(t, flow.SubmitEmail(ctx, "Jane", "new@example.com"))
	backend.MarkVerified("new@example.com")
	require.Eventually(t, func() bool {
		return flow.Step() == StepPassword
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, flow.ChangeEmail())

	assert.Equal(t, StepEmail, flow.Step())
	assert.False(t, flow.VerificationSent())
	assert.Zero(t, flow.ResendWait())
}

func TestCloseStopsTimers(t *testing.T) {
	flow, backend := newTestFlow(t, time.Minute)

	require.NoError(t, flow.SubmitEmail(context.Background(), "Jane", "new@example.com"))
	flow.Close()

	polls := backend.RequestCount("verification-status")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, polls, backend.RequestCount("verification-status"))
}
