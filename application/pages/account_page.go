package pages

import (
	"context"
	"strings"

	"storefront_automation/application/page"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
)

// Account area locators
var (
	AccountDashboardLink     = entities.XPath("//a[contains(text(), 'Account Dashboard')]")
	AccountInformationLink   = entities.XPath("//a[contains(text(), 'Account Information')]")
	EditAccountButton        = entities.ID("edit-account-button")
	EditAccountLink          = entities.XPath("//a[contains(text(), 'Edit Account')]")
	AccountFirstNameInput    = entities.ID("account_firstname")
	AccountLastNameInput     = entities.ID("account_lastname")
	AccountEmailInput        = entities.ID("account_email")
	AccountTelephoneInput    = entities.ID("account_telephone")
	AccountCompanyInput      = entities.ID("account_company")
	AddressBookLink          = entities.XPath("//a[contains(text(), 'Address Book')]")
	ChangePasswordLink       = entities.XPath("//a[contains(text(), 'Change Password')]")
	ChangePasswordButton     = entities.ID("change-password-button")
	CurrentPasswordInput     = entities.ID("current_password")
	NewPasswordInput         = entities.ID("new_password")
	ConfirmPasswordInput     = entities.ID("confirm_password")
	AccountDashboardHeader   = entities.ClassName("account-dashboard-header")
	AccountInformationPanel  = entities.ClassName("account-information-section")
	OrderHistoryLink         = entities.XPath("//a[contains(text(), 'Order History')]")
	WishlistLink             = entities.XPath("//a[contains(text(), 'Wishlist')]")
	DownloadsLink            = entities.XPath("//a[contains(text(), 'Downloads')]")
	AccountLogoutLink        = entities.XPath("//a[contains(text(), 'Logout')]")
	SaveChangesButton        = entities.ID("save-account-changes")
	SaveButton               = entities.XPath("//button[contains(text(), 'Save')]")
	CancelButton             = entities.XPath("//button[contains(text(), 'Cancel')]")
	AccountSuccessMessage    = entities.ClassName("success-message")
	AccountErrorMessage      = entities.ClassName("error-message")
	AccountNotificationPanel = entities.ClassName("notification")
)

// Dashboard section names reported by Sections
const (
	SectionOrderHistory   = "order_history"
	SectionWishlist       = "wishlist"
	SectionDownloads      = "downloads"
	SectionAddressBook    = "address_book"
	SectionEditAccount    = "edit_account"
	SectionChangePassword = "change_password"
	SectionLogout         = "logout"
)

var dashboardSections = map[string]entities.Locator{
	SectionOrderHistory:   OrderHistoryLink,
	SectionWishlist:       WishlistLink,
	SectionDownloads:      DownloadsLink,
	SectionAddressBook:    AddressBookLink,
	SectionEditAccount:    EditAccountLink,
	SectionChangePassword: ChangePasswordLink,
	SectionLogout:         AccountLogoutLink,
}

// AccountPage - the signed-in account area
type AccountPage struct {
	*page.BasePage
	baseURL string
}

func NewAccountPage(base *page.BasePage, baseURL string) *AccountPage {
	return &AccountPage{BasePage: base, baseURL: baseURL}
}

// Open - navigates straight to the account dashboard route
func (p *AccountPage) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, URL(p.baseURL, RouteAccount))
}

func (p *AccountPage) ClickDashboardLink(ctx context.Context) error {
	return p.Click(ctx, AccountDashboardLink)
}

func (p *AccountPage) ClickAccountInformationLink(ctx context.Context) error {
	return p.Click(ctx, AccountInformationLink)
}

func (p *AccountPage) ClickEditAccountLink(ctx context.Context) error {
	return p.Click(ctx, EditAccountLink)
}

func (p *AccountPage) ClickChangePasswordLink(ctx context.Context) error {
	return p.Click(ctx, ChangePasswordLink)
}

func (p *AccountPage) ClickChangePasswordButton(ctx context.Context) error {
	return p.Click(ctx, ChangePasswordButton)
}

func (p *AccountPage) ClickSaveChanges(ctx context.Context) error {
	return p.Click(ctx, SaveChangesButton)
}

func (p *AccountPage) ClickCancel(ctx context.Context) error {
	return p.Click(ctx, CancelButton)
}

func (p *AccountPage) ClickLogout(ctx context.Context) error {
	return p.Click(ctx, AccountLogoutLink)
}

// FillDetails - types every non-empty field of details into the edit form
func (p *AccountPage) FillDetails(ctx context.Context, details entities.AccountDetails) error {
	fields := []struct {
		loc   entities.Locator
		value string
	}{
		{AccountFirstNameInput, details.FirstName},
		{AccountLastNameInput, details.LastName},
		{AccountEmailInput, details.Email},
		{AccountTelephoneInput, details.Telephone},
		{AccountCompanyInput, details.Company},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := p.TypeText(ctx, f.loc, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ReadDetails - current values of the edit form
func (p *AccountPage) ReadDetails(ctx context.Context) (entities.AccountDetails, error) {
	var (
		d   entities.AccountDetails
		err error
	)
	if d.FirstName, err = p.GetAttribute(ctx, AccountFirstNameInput, "value"); err != nil {
		return d, err
	}
	if d.LastName, err = p.GetAttribute(ctx, AccountLastNameInput, "value"); err != nil {
		return d, err
	}
	if d.Email, err = p.GetAttribute(ctx, AccountEmailInput, "value"); err != nil {
		return d, err
	}
	// telephone and company are optional on the form
	if p.IsElementPresent(ctx, AccountTelephoneInput) {
		if d.Telephone, err = p.GetAttribute(ctx, AccountTelephoneInput, "value"); err != nil {
			return d, err
		}
	}
	if p.IsElementPresent(ctx, AccountCompanyInput) {
		if d.Company, err = p.GetAttribute(ctx, AccountCompanyInput, "value"); err != nil {
			return d, err
		}
	}
	return d, nil
}

// FillPasswordChange - types the change password form
func (p *AccountPage) FillPasswordChange(ctx context.Context, change entities.PasswordChange) error {
	if err := p.TypeText(ctx, CurrentPasswordInput, change.Current); err != nil {
		return err
	}
	if err := p.TypeText(ctx, NewPasswordInput, change.New); err != nil {
		return err
	}
	return p.TypeText(ctx, ConfirmPasswordInput, change.Confirm)
}

// IsDashboardDisplayed - waits the full timeout for the dashboard header
func (p *AccountPage) IsDashboardDisplayed(ctx context.Context) bool {
	timeout, _ := p.WaitConfig().Resolve()
	return p.IsElementPresent(ctx, AccountDashboardHeader, wait.WithTimeout(timeout))
}

func (p *AccountPage) IsInformationFormDisplayed(ctx context.Context) bool {
	return p.IsElementPresent(ctx, AccountFirstNameInput)
}

func (p *AccountPage) IsSaveEnabled(ctx context.Context) bool {
	return p.IsEnabled(ctx, SaveChangesButton)
}

// Sections - presence of every dashboard section link, keyed by section name
func (p *AccountPage) Sections(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(dashboardSections))
	for name, loc := range dashboardSections {
		out[name] = p.IsElementPresent(ctx, loc)
	}
	return out
}

// SuccessMessage - confirmation text, or "" if none appears within the short timeout
func (p *AccountPage) SuccessMessage(ctx context.Context) string {
	return p.optionalText(ctx, AccountSuccessMessage)
}

// ErrorMessage - validation error text, or "" if none appears within the short timeout
func (p *AccountPage) ErrorMessage(ctx context.Context) string {
	return p.optionalText(ctx, AccountErrorMessage)
}

func (p *AccountPage) NotificationMessage(ctx context.Context) string {
	return p.optionalText(ctx, AccountNotificationPanel)
}

func (p *AccountPage) optionalText(ctx context.Context, loc entities.Locator) string {
	if !p.IsElementPresent(ctx, loc) {
		return ""
	}
	text, err := p.GetText(ctx, loc, wait.Short())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
