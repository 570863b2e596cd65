// internal/api/auth.go
package api

import (
	"context"
	"net/url"
	"strings"
)

// Auth service endpoints.
const (
	epEmailVerification     = "/email-verification"
	epCompleteRegistration  = "/complete-registration"
	epRegister              = "/register"
	epVerificationStatus    = "/verification-status"
	epResendVerification    = "/resend-verification"
	epLogin                 = "/login"
	epUserInfo              = "/user-info"
	epProfile               = "/profile"
	epPasswordChange        = "/password/change"
	epPasswordResetRequest  = "/password/reset-request"
	epPasswordResetConfirm  = "/password/reset-confirm"
)

// AuthAPI maps the authentication resource group onto the auth-service
// client. It assembles paths and bodies only; sequencing the sign-up
// funnel is the caller's job.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates the auth module over the auth-service client.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// RequestEmailVerification asks the backend to send a verification
// mail to the given address. First step of the sign-up funnel.
func (a *AuthAPI) RequestEmailVerification(ctx context.Context, email, name string) error {
	req := EmailVerificationRequest{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}
	return a.client.Post(ctx, epEmailVerification, req).AsError()
}

// VerificationStatus reports whether the address has been verified.
func (a *AuthAPI) VerificationStatus(ctx context.Context, email string) (*EmailVerificationStatus, error) {
	res := a.client.Get(ctx, epVerificationStatus, map[string]string{"email": email})
	status, err := Into[EmailVerificationStatus](res)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ResendVerification re-sends the verification mail. The backend
// answers with a plain-text message.
func (a *AuthAPI) ResendVerification(ctx context.Context, email string) (string, error) {
	res := a.client.PostForm(ctx, epResendVerification, url.Values{"email": {email}})
	if err := res.AsError(); err != nil {
		return "", err
	}
	return res.Message, nil
}

// CompleteRegistration finishes the sign-up funnel once the email is
// verified.
func (a *AuthAPI) CompleteRegistration(ctx context.Context, req CompleteRegistrationRequest) error {
	return a.client.Post(ctx, epCompleteRegistration, req).AsError()
}

// SignUp performs single-shot registration. The email doubles as the
// username.
func (a *AuthAPI) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error) {
	req.Username = req.Email
	res := a.client.Post(ctx, epRegister, req)
	out, err := Into[SignUpResponse](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges credentials for a bearer token.
func (a *AuthAPI) SignIn(ctx context.Context, emailOrUsername, password string) (*SignInResponse, error) {
	res := a.client.Post(ctx, epLogin, SignInRequest{
		EmailOrUsername: emailOrUsername,
		Password:        password,
	})
	out, err := Into[SignInResponse](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserInfo looks up public identity details by email.
func (a *AuthAPI) UserInfo(ctx context.Context, email string) (*UserInfo, error) {
	res := a.client.Get(ctx, epUserInfo, map[string]string{"email": email})
	out, err := Into[UserInfo](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the signed-in user's profile.
func (a *AuthAPI) Profile(ctx context.Context) (*UserProfile, error) {
	res := a.client.Get(ctx, epProfile, nil)
	out, err := Into[UserProfile](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile mutation and returns the
// updated profile.
func (a *AuthAPI) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserProfile, error) {
	res := a.client.Post(ctx, epProfile, update)
	out, err := Into[UserProfile](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword changes the signed-in user's password; the backend
// answers with a plain-text message.
func (a *AuthAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	res := a.client.Post(ctx, epPasswordChange, ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err := res.AsError(); err != nil {
		return "", err
	}
	return res.Message, nil
}

// RequestPasswordReset starts a password reset and returns the reset
// token text.
func (a *AuthAPI) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	res := a.client.Post(ctx, epPasswordResetRequest, PasswordResetRequest{Email: email})
	if err := res.AsError(); err != nil {
		return "", err
	}
	return res.Message, nil
}

// ConfirmPasswordReset completes a password reset with the token from
// the reset mail.
func (a *AuthAPI) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (string, error) {
	res := a.client.Post(ctx, epPasswordResetConfirm, PasswordResetConfirmRequest{
		Token:       resetToken,
		NewPassword: newPassword,
	})
	if err := res.AsError(); err != nil {
		return "", err
	}
	return res.Message, nil
}
