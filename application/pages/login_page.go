package pages

import (
	"context"

	"storefront_automation/application/page"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
)

// Login form locators
var (
	LoginRegisterLink   = entities.LinkText("Login or register")
	LoginNameInput      = entities.ID("loginFrm_loginname")
	LoginPasswordInput  = entities.ID("loginFrm_password")
	LoginButton         = entities.XPath("//button[@title='Login']")
	LoginErrorMessage   = entities.XPath("//*[contains(@class, 'error') or contains(text(), 'Incorrect')]")
	MyAccountIndicator  = entities.XPath("//a[contains(text(), 'My Account')]")
	LoginPageLogoutLink = entities.LinkText("Logout")
)

// LoginPage - the account login screen
type LoginPage struct {
	*page.BasePage
	baseURL string
}

func NewLoginPage(base *page.BasePage, baseURL string) *LoginPage {
	return &LoginPage{BasePage: base, baseURL: baseURL}
}

// Open - navigates straight to the login route
func (p *LoginPage) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, URL(p.baseURL, RouteLogin))
}

func (p *LoginPage) ClickLoginRegisterLink(ctx context.Context) error {
	return p.Click(ctx, LoginRegisterLink)
}

func (p *LoginPage) EnterLoginName(ctx context.Context, loginName string) error {
	return p.TypeText(ctx, LoginNameInput, loginName)
}

func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return p.TypeText(ctx, LoginPasswordInput, password)
}

func (p *LoginPage) ClickLoginButton(ctx context.Context) error {
	return p.Click(ctx, LoginButton)
}

// EnterCredentialsWithKeyboard - types the login name, tabs to the password
// and submits the form with Enter
func (p *LoginPage) EnterCredentialsWithKeyboard(ctx context.Context, creds entities.Credentials) error {
	if err := p.TypeAndTab(ctx, LoginNameInput, creds.LoginName); err != nil {
		return err
	}
	return p.TypeAndEnter(ctx, LoginPasswordInput, creds.Password)
}

func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.GetText(ctx, LoginErrorMessage)
}

func (p *LoginPage) IsErrorMessageDisplayed(ctx context.Context) bool {
	return p.IsVisible(ctx, LoginErrorMessage)
}

// IsMyAccountDisplayed - waits the full timeout for the post-login menu entry
func (p *LoginPage) IsMyAccountDisplayed(ctx context.Context) bool {
	timeout, _ := p.WaitConfig().Resolve()
	return p.IsVisible(ctx, MyAccountIndicator, wait.WithTimeout(timeout))
}

func (p *LoginPage) MyAccountText(ctx context.Context) (string, error) {
	return p.GetText(ctx, MyAccountIndicator)
}

func (p *LoginPage) ClickLogoutLink(ctx context.Context) error {
	return p.Click(ctx, LoginPageLogoutLink)
}

func (p *LoginPage) IsLogoutLinkDisplayed(ctx context.Context) bool {
	return p.IsVisible(ctx, LoginPageLogoutLink)
}
