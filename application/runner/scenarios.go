package runner

import (
	"context"
	"strings"

	"storefront_automation/application/flows"
	"storefront_automation/application/pages"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

const defaultLoginError = "Incorrect login or password"

// negativeLogin - credentials expected to be rejected
type negativeLogin struct {
	entities.Credentials
	ExpectedError string `json:"expected_error"`
}

// incompleteRegistration - a registration record with required fields left
// out on purpose
type incompleteRegistration struct {
	entities.Registration
	ExpectedError string `json:"expected_error"`
}

type accountUpdate struct {
	Login   entities.Credentials    `json:"login"`
	Details entities.AccountDetails `json:"details"`
}

type passwordChange struct {
	Login  entities.Credentials    `json:"login"`
	Change entities.PasswordChange `json:"change"`
}

// Default - the built-in storefront scenarios
func Default() *Registry {
	return NewRegistry(
		Scenario{
			Name:        "login.valid",
			Description: "Sign in with a registered account",
			DataKey:     "login.valid_user",
			run:         loginValid,
		},
		Scenario{
			Name:        "login.invalid",
			Description: "Wrong credentials are rejected with an error banner",
			DataKey:     "login.invalid_user",
			run:         loginInvalid,
		},
		Scenario{
			Name:        "register.mandatory",
			Description: "Register with the mandatory fields only",
			DataKey:     "register.mandatory",
			run:         registerWith(flows.RegisterOptions{}, false),
		},
		Scenario{
			Name:        "register.newsletter",
			Description: "Register and subscribe to the newsletter",
			DataKey:     "register.mandatory",
			run:         registerWith(flows.RegisterOptions{}, true),
		},
		Scenario{
			Name:        "register.keyboard",
			Description: "Fill the registration form with Tab and submit with Enter",
			DataKey:     "register.mandatory",
			run:         registerWith(flows.RegisterOptions{UseKeyboard: true}, false),
		},
		Scenario{
			Name:        "register.after_cookie_wipe",
			Description: "Register from a fresh session after deleting all cookies",
			DataKey:     "register.mandatory",
			run:         registerWith(flows.RegisterOptions{WipeCookies: true}, false),
		},
		Scenario{
			Name:        "register.missing_fields",
			Description: "The form refuses a registration with a required field left empty",
			DataKey:     "register.missing_first_name",
			run:         registerMissingFields,
		},
		Scenario{
			Name:        "account.dashboard",
			Description: "The account dashboard lists the main sections",
			DataKey:     "login.valid_user",
			run:         accountDashboard,
		},
		Scenario{
			Name:        "account.update",
			Description: "Edit the account information and read it back",
			DataKey:     "account.update",
			run:         accountUpdateScenario,
		},
		Scenario{
			Name:        "account.change_password",
			Description: "Change the password and change it back",
			DataKey:     "account.change_password",
			run:         changePassword,
		},
	)
}

func signIn(ctx context.Context, s *Session, creds entities.Credentials) error {
	if err := s.validate(func(v interfaces.RecordValidator) error { return v.ValidateCredentials(creds) }); err != nil {
		return err
	}
	res, err := s.LoginFlow().Login(ctx, creds, flows.LoginOptions{})
	if err != nil {
		return err
	}
	if !res.Success {
		return &entities.AssertionFailure{Subject: "login", Expected: "My Account", Actual: res.Message}
	}
	return nil
}

func loginValid(ctx context.Context, s *Session, key string) error {
	var creds entities.Credentials
	if err := s.decode(key, &creds); err != nil {
		return err
	}
	return signIn(ctx, s, creds)
}

func loginInvalid(ctx context.Context, s *Session, key string) error {
	var rec negativeLogin
	if err := s.decode(key, &rec); err != nil {
		return err
	}
	if err := s.validate(func(v interfaces.RecordValidator) error { return v.ValidateCredentials(rec.Credentials) }); err != nil {
		return err
	}
	want := rec.ExpectedError
	if want == "" {
		want = defaultLoginError
	}

	msg, err := s.LoginFlow().VerifyInvalidLogin(ctx, rec.Credentials)
	if err != nil {
		return err
	}
	if !strings.Contains(msg, want) {
		return &entities.AssertionFailure{Subject: "login error", Expected: want, Actual: msg}
	}
	return nil
}

func registerWith(opts flows.RegisterOptions, newsletter bool) func(ctx context.Context, s *Session, key string) error {
	return func(ctx context.Context, s *Session, key string) error {
		var data entities.Registration
		if err := s.decode(key, &data); err != nil {
			return err
		}
		s.uniquify(&data)
		if newsletter {
			data.Newsletter = true
		}
		if err := s.validate(func(v interfaces.RecordValidator) error { return v.ValidateRegistration(data) }); err != nil {
			return err
		}

		res, err := s.RegisterFlow().Register(ctx, data, opts)
		if err != nil {
			return err
		}
		if !res.Success {
			return &entities.AssertionFailure{Subject: "registration", Expected: "account created", Actual: res.Message}
		}
		return nil
	}
}

func registerMissingFields(ctx context.Context, s *Session, key string) error {
	var rec incompleteRegistration
	if err := s.decode(key, &rec); err != nil {
		return err
	}
	s.uniquify(&rec.Registration)

	msg, err := s.RegisterFlow().RegisterWithMissingFields(ctx, rec.Registration)
	if err != nil {
		return err
	}
	if msg == "" || !strings.Contains(msg, rec.ExpectedError) {
		return &entities.AssertionFailure{Subject: "registration error", Expected: rec.ExpectedError, Actual: msg}
	}
	return nil
}

func accountDashboard(ctx context.Context, s *Session, key string) error {
	var creds entities.Credentials
	if err := s.decode(key, &creds); err != nil {
		return err
	}
	if err := signIn(ctx, s, creds); err != nil {
		return err
	}

	sections, err := s.AccountFlow().DashboardSections(ctx)
	if err != nil {
		return err
	}
	for _, name := range []string{pages.SectionEditAccount, pages.SectionChangePassword, pages.SectionOrderHistory, pages.SectionLogout} {
		if !sections[name] {
			return &entities.AssertionFailure{Subject: "dashboard section " + name, Expected: "present", Actual: "absent"}
		}
	}
	return nil
}

func accountUpdateScenario(ctx context.Context, s *Session, key string) error {
	var rec accountUpdate
	if err := s.decode(key, &rec); err != nil {
		return err
	}
	if err := s.validate(func(v interfaces.RecordValidator) error { return v.ValidateAccount(rec.Details) }); err != nil {
		return err
	}
	if err := signIn(ctx, s, rec.Login); err != nil {
		return err
	}

	account := s.AccountFlow()
	res, err := account.UpdateAccount(ctx, rec.Details)
	if err != nil {
		return err
	}
	if !res.Success {
		return &entities.AssertionFailure{Subject: "account update", Expected: "saved", Actual: res.Message}
	}

	got, err := account.ReadAccount(ctx)
	if err != nil {
		return err
	}
	return compareDetails(rec.Details, got)
}

// compareDetails - every field set in want must be stored as is
func compareDetails(want, got entities.AccountDetails) error {
	fields := []struct {
		name      string
		want, got string
	}{
		{"first name", want.FirstName, got.FirstName},
		{"last name", want.LastName, got.LastName},
		{"email", want.Email, got.Email},
		{"telephone", want.Telephone, got.Telephone},
		{"company", want.Company, got.Company},
	}
	for _, f := range fields {
		if f.want != "" && f.want != f.got {
			return &entities.AssertionFailure{Subject: "account " + f.name, Expected: f.want, Actual: f.got}
		}
	}
	return nil
}

func changePassword(ctx context.Context, s *Session, key string) error {
	var rec passwordChange
	if err := s.decode(key, &rec); err != nil {
		return err
	}
	if err := s.validate(func(v interfaces.RecordValidator) error { return v.ValidatePasswordChange(rec.Change) }); err != nil {
		return err
	}
	if err := signIn(ctx, s, rec.Login); err != nil {
		return err
	}

	account := s.AccountFlow()
	res, err := account.ChangePassword(ctx, rec.Change)
	if err != nil {
		return err
	}
	if !res.Success {
		return &entities.AssertionFailure{Subject: "password change", Expected: "updated", Actual: res.Message}
	}

	// restore the fixture password so the record keeps working
	restore := entities.PasswordChange{Current: rec.Change.New, New: rec.Change.Current, Confirm: rec.Change.Current}
	res, err = account.ChangePassword(ctx, restore)
	if err != nil {
		return err
	}
	if !res.Success {
		return &entities.AssertionFailure{Subject: "password restore", Expected: "updated", Actual: res.Message}
	}
	return nil
}
