package flows

import (
	"context"
	"time"

	"storefront_automation/application/page"
	"storefront_automation/application/pages"
	"storefront_automation/domain/entities"
)

// RegistrationResult - outcome of submitting the registration form
type RegistrationResult struct {
	Success bool
	Message string
}

// RegisterOptions selects one of the registration variants
type RegisterOptions struct {
	// SkipTerms leaves the privacy policy checkbox unticked
	SkipTerms bool
	// UseKeyboard tabs between fields and submits with Enter
	UseKeyboard bool
	// SlowTyping types one character at a time, TypingDelay apart
	SlowTyping  bool
	TypingDelay time.Duration
	// WipeCookies opens the form once, deletes all cookies and opens it again
	// so the form is submitted from a fresh session
	WipeCookies bool
}

// RegisterFlow drives the account creation form
type RegisterFlow struct {
	page *pages.RegisterPage
}

func NewRegisterFlow(p *pages.RegisterPage) *RegisterFlow {
	return &RegisterFlow{page: p}
}

type formField struct {
	loc   entities.Locator
	value string
}

func addressFields(data entities.Registration) (before, after []formField) {
	before = []formField{
		{pages.RegisterFirstNameInput, data.FirstName},
		{pages.RegisterLastNameInput, data.LastName},
		{pages.RegisterEmailInput, data.Email},
		{pages.RegisterTelephoneInput, data.Telephone},
		{pages.RegisterFaxInput, data.Fax},
		{pages.RegisterCompanyInput, data.Company},
		{pages.RegisterAddressInput, data.Address},
		{pages.RegisterCityInput, data.City},
	}
	after = []formField{
		{pages.RegisterPostcodeInput, data.Postcode},
		{pages.RegisterLoginNameInput, data.LoginName},
		{pages.RegisterPasswordInput, data.Password},
		{pages.RegisterConfirmPasswordInput, data.Password},
	}
	return before, after
}

// fill types every non-empty field. Country goes before zone because the
// zone list is reloaded for the chosen country.
func (f *RegisterFlow) fill(ctx context.Context, data entities.Registration, opts RegisterOptions) error {
	before, after := addressFields(data)

	typeAll := func(fields []formField) error {
		for _, field := range fields {
			if field.value == "" {
				continue
			}
			var err error
			switch {
			case opts.UseKeyboard:
				err = f.page.TypeAndTab(ctx, field.loc, field.value)
			case opts.SlowTyping:
				err = f.page.TypeSlowly(ctx, field.loc, field.value, page.WithDelay(opts.TypingDelay))
			default:
				err = f.page.TypeText(ctx, field.loc, field.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := typeAll(before); err != nil {
		return err
	}
	if data.CountryID != "" {
		if err := f.page.SelectCountry(ctx, data.CountryID); err != nil {
			return err
		}
	}
	if data.ZoneID != "" {
		if err := f.page.SelectZone(ctx, data.ZoneID); err != nil {
			return err
		}
	}
	return typeAll(after)
}

func (f *RegisterFlow) submit(ctx context.Context, newsletter bool, opts RegisterOptions) error {
	if err := f.page.SelectNewsletter(ctx, newsletter); err != nil {
		return err
	}
	if !opts.SkipTerms {
		if err := f.page.AcceptTerms(ctx); err != nil {
			return err
		}
	}
	if opts.UseKeyboard {
		return f.page.SubmitWithKeyboard(ctx)
	}
	return f.page.ClickContinue(ctx)
}

func (f *RegisterFlow) open(ctx context.Context, opts RegisterOptions) error {
	if err := f.page.Open(ctx); err != nil {
		return err
	}
	if !opts.WipeCookies {
		return nil
	}
	if err := f.page.DeleteAllCookies(ctx); err != nil {
		return err
	}
	return f.page.Open(ctx)
}

// Register - fills and submits the form, then reports whether the account
// was created along with the message shown
func (f *RegisterFlow) Register(ctx context.Context, data entities.Registration, opts RegisterOptions) (RegistrationResult, error) {
	if err := f.open(ctx, opts); err != nil {
		return RegistrationResult{}, err
	}
	if err := f.fill(ctx, data, opts); err != nil {
		return RegistrationResult{}, err
	}
	if err := f.submit(ctx, data.Newsletter, opts); err != nil {
		return RegistrationResult{}, err
	}

	if f.page.DismissSaveAddressPrompt(ctx) {
		f.page.Logger().Debug("Closed save address prompt")
	}

	if f.page.IsSuccessDisplayed(ctx) {
		msg, _ := f.page.SuccessMessage(ctx)
		return RegistrationResult{Success: true, Message: msg}, nil
	}
	res := RegistrationResult{}
	if f.page.IsErrorMessageDisplayed(ctx) {
		res.Message, _ = f.page.ErrorMessage(ctx)
	}
	return res, nil
}

// RegisterWithMissingFields - submits a form where the empty fields of data
// are left blank and returns the validation error shown
func (f *RegisterFlow) RegisterWithMissingFields(ctx context.Context, data entities.Registration) (string, error) {
	if err := f.open(ctx, RegisterOptions{}); err != nil {
		return "", err
	}
	if err := f.fill(ctx, data, RegisterOptions{}); err != nil {
		return "", err
	}
	if err := f.submit(ctx, data.Newsletter, RegisterOptions{}); err != nil {
		return "", err
	}
	return f.page.ErrorMessage(ctx)
}
