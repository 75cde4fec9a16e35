package flows

import (
	"context"
	"strings"

	"storefront_automation/application/pages"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// LoginResult - outcome of a login attempt as seen by the user
type LoginResult struct {
	Success bool
	Message string
}

// LoginOptions tunes how credentials are entered
type LoginOptions struct {
	// UseKeyboard tabs between fields and submits with Enter
	UseKeyboard bool
}

// LoginFlow drives the login form
type LoginFlow struct {
	page *pages.LoginPage
}

func NewLoginFlow(p *pages.LoginPage) *LoginFlow {
	return &LoginFlow{page: p}
}

func onAccountPage(ctx context.Context, d interfaces.Driver) (bool, error) {
	url, err := d.CurrentURL(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(url, "rt="+pages.RouteAccount), nil
}

func (f *LoginFlow) enterCredentials(ctx context.Context, creds entities.Credentials, opts LoginOptions) error {
	if err := f.page.Open(ctx); err != nil {
		return err
	}
	if opts.UseKeyboard {
		if err := f.page.EnterCredentialsWithKeyboard(ctx, creds); err != nil {
			return err
		}
		// Enter normally submits the form; fall back to the button if the
		// page did not move on
		if f.page.WaitFor(ctx, "login redirect", onAccountPage, wait.Short()) == nil {
			return nil
		}
		f.page.Logger().Debug("Enter did not submit the login form, clicking the button")
		return f.page.ClickLoginButton(ctx)
	}
	if err := f.page.EnterLoginName(ctx, creds.LoginName); err != nil {
		return err
	}
	if err := f.page.EnterPassword(ctx, creds.Password); err != nil {
		return err
	}
	return f.page.ClickLoginButton(ctx)
}

// Login - signs in and reports what the user would see. An error means the
// form could not be driven; a rejected login is a result with Success false.
func (f *LoginFlow) Login(ctx context.Context, creds entities.Credentials, opts LoginOptions) (LoginResult, error) {
	if err := f.enterCredentials(ctx, creds, opts); err != nil {
		return LoginResult{}, err
	}

	if f.page.IsMyAccountDisplayed(ctx) {
		text, err := f.page.MyAccountText(ctx)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Success: true, Message: strings.TrimSpace(text)}, nil
	}

	res := LoginResult{}
	if f.page.IsErrorMessageDisplayed(ctx) {
		if text, err := f.page.ErrorMessage(ctx); err == nil {
			res.Message = strings.TrimSpace(text)
		}
	}
	return res, nil
}

// VerifyInvalidLogin - submits credentials expected to be rejected and
// returns the error banner text
func (f *LoginFlow) VerifyInvalidLogin(ctx context.Context, creds entities.Credentials) (string, error) {
	if err := f.enterCredentials(ctx, creds, LoginOptions{}); err != nil {
		return "", err
	}
	text, err := f.page.ErrorMessage(ctx)
	return strings.TrimSpace(text), err
}

// Logout - signs out through the header link
func (f *LoginFlow) Logout(ctx context.Context) error {
	return f.page.ClickLogoutLink(ctx)
}
