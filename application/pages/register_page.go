package pages

import (
	"context"
	"strings"

	"storefront_automation/application/page"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

// Registration form locators
var (
	RegisterFirstNameInput       = entities.XPath("//input[@id='AccountFrm_firstname']")
	RegisterLastNameInput        = entities.XPath("//input[@id='AccountFrm_lastname']")
	RegisterEmailInput           = entities.XPath("//input[@id='AccountFrm_email']")
	RegisterTelephoneInput       = entities.XPath("//input[@id='AccountFrm_telephone']")
	RegisterFaxInput             = entities.XPath("//input[@id='AccountFrm_fax']")
	RegisterCompanyInput         = entities.XPath("//input[@id='AccountFrm_company']")
	RegisterAddressInput         = entities.XPath("//input[@id='AccountFrm_address_1']")
	RegisterCityInput            = entities.XPath("//input[@id='AccountFrm_city']")
	RegisterZoneSelect           = entities.XPath("//select[@id='AccountFrm_zone_id']")
	RegisterPostcodeInput        = entities.XPath("//input[@id='AccountFrm_postcode']")
	RegisterCountrySelect        = entities.XPath("//select[@id='AccountFrm_country_id']")
	RegisterLoginNameInput       = entities.XPath("//input[@id='AccountFrm_loginname']")
	RegisterPasswordInput        = entities.XPath("//input[@id='AccountFrm_password']")
	RegisterConfirmPasswordInput = entities.XPath("//input[@id='AccountFrm_confirm']")
	NewsletterYesRadio           = entities.XPath("//input[@id='AccountFrm_newsletter1']")
	NewsletterNoRadio            = entities.XPath("//input[@id='AccountFrm_newsletter0']")
	TermsCheckbox                = entities.XPath("//input[@id='AccountFrm_agree']")
	RegisterContinueButton       = entities.XPath("//button[normalize-space()='Continue']")
	RegisterSuccessMessage       = entities.XPath("//*[contains(text(), 'Your Account') or contains(text(), 'Thank you') or contains(text(), 'Success')]")
	RegisterErrorMessage         = entities.XPath("//div[@class='error']")
	SuccessContinueButton        = entities.XPath("//a[normalize-space()='Continue']")
	SaveAddressButton            = entities.XPath("//div[@role='dialog']//button[contains(text(), 'Save')]")
)

// successIndicators are page source fragments shown once an account exists
var successIndicators = []string{"Your Account Has Been Created", "Thank you for registering"}

// RegisterPage - the account creation form
type RegisterPage struct {
	*page.BasePage
	baseURL string
}

func NewRegisterPage(base *page.BasePage, baseURL string) *RegisterPage {
	return &RegisterPage{BasePage: base, baseURL: baseURL}
}

// Open - navigates straight to the registration route
func (p *RegisterPage) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, URL(p.baseURL, RouteRegister))
}

func (p *RegisterPage) EnterFirstName(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterFirstNameInput, v)
}

func (p *RegisterPage) EnterLastName(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterLastNameInput, v)
}

func (p *RegisterPage) EnterEmail(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterEmailInput, v)
}

func (p *RegisterPage) EnterTelephone(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterTelephoneInput, v)
}

func (p *RegisterPage) EnterFax(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterFaxInput, v)
}

func (p *RegisterPage) EnterCompany(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterCompanyInput, v)
}

func (p *RegisterPage) EnterAddress(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterAddressInput, v)
}

func (p *RegisterPage) EnterCity(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterCityInput, v)
}

func (p *RegisterPage) EnterPostcode(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterPostcodeInput, v)
}

func (p *RegisterPage) EnterLoginName(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterLoginNameInput, v)
}

func (p *RegisterPage) EnterPassword(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterPasswordInput, v)
}

func (p *RegisterPage) EnterConfirmPassword(ctx context.Context, v string) error {
	return p.TypeText(ctx, RegisterConfirmPasswordInput, v)
}

// SelectCountry - picks the country by its visible name. The zone list is
// reloaded by the page afterwards.
func (p *RegisterPage) SelectCountry(ctx context.Context, country string) error {
	return p.SelectByVisibleText(ctx, RegisterCountrySelect, country)
}

// SelectZone - picks the region by its visible name, waiting for the zone
// list to be repopulated for the selected country
func (p *RegisterPage) SelectZone(ctx context.Context, zone string) error {
	return p.SelectByVisibleText(ctx, RegisterZoneSelect, zone)
}

// SelectNewsletter - ticks the Yes or No subscription radio
func (p *RegisterPage) SelectNewsletter(ctx context.Context, subscribe bool) error {
	if subscribe {
		return p.Check(ctx, NewsletterYesRadio)
	}
	return p.Check(ctx, NewsletterNoRadio)
}

func (p *RegisterPage) AcceptTerms(ctx context.Context) error {
	return p.Check(ctx, TermsCheckbox)
}

func (p *RegisterPage) ClickContinue(ctx context.Context) error {
	return p.Click(ctx, RegisterContinueButton)
}

// SubmitWithKeyboard - focuses the Continue button and presses Enter
func (p *RegisterPage) SubmitWithKeyboard(ctx context.Context) error {
	return p.PressEnter(ctx, RegisterContinueButton)
}

func (p *RegisterPage) ClickSuccessContinue(ctx context.Context) error {
	return p.Click(ctx, SuccessContinueButton)
}

// DismissSaveAddressPrompt - closes the browser's "Save address?" prompt if
// one shows up, either as a native dialog or as an in-page modal. Reports
// whether anything was closed.
func (p *RegisterPage) DismissSaveAddressPrompt(ctx context.Context) bool {
	if p.IsAlertPresent(ctx) {
		if _, err := p.DismissAlert(ctx, wait.Short()); err == nil {
			return true
		}
	}
	if p.IsVisible(ctx, SaveAddressButton) {
		return p.Click(ctx, SaveAddressButton, wait.Short()) == nil
	}
	return false
}

// IsSuccessDisplayed - waits the full timeout for any sign that the account
// was created: the success route, a visible success message or a known
// confirmation text in the page
func (p *RegisterPage) IsSuccessDisplayed(ctx context.Context) bool {
	err := p.WaitFor(ctx, "registration success", func(ctx context.Context, d interfaces.Driver) (bool, error) {
		if url, err := d.CurrentURL(ctx); err == nil && strings.Contains(url, RouteRegisterSuccess) {
			return true, nil
		}
		if el, err := d.Find(ctx, RegisterSuccessMessage); err == nil {
			if shown, err := el.IsDisplayed(); err == nil && shown {
				return true, nil
			}
		}
		source, err := d.PageSource(ctx)
		if err != nil {
			return false, err
		}
		for _, s := range successIndicators {
			if strings.Contains(source, s) {
				return true, nil
			}
		}
		return false, nil
	})
	return err == nil
}

func (p *RegisterPage) SuccessMessage(ctx context.Context) (string, error) {
	text, err := p.GetText(ctx, RegisterSuccessMessage)
	return strings.TrimSpace(text), err
}

func (p *RegisterPage) ErrorMessage(ctx context.Context) (string, error) {
	text, err := p.GetText(ctx, RegisterErrorMessage)
	return strings.TrimSpace(text), err
}

func (p *RegisterPage) IsErrorMessageDisplayed(ctx context.Context) bool {
	return p.IsVisible(ctx, RegisterErrorMessage)
}
