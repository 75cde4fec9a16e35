// Package flowstest simulates the storefront screens on top of the in-memory
// driver so flows and scenarios can run without a browser.
package flowstest

import (
	"strings"
	"time"

	"storefront_automation/application/pages"
	"storefront_automation/domain/entities"
	"storefront_automation/infrastructure/browser/browsertest"
)

const BaseURL = "https://shop.test"

// Storefront - a scripted storefront. Known users are keyed by login name.
type Storefront struct {
	D     *browsertest.Driver
	Users map[string]string

	// ZoneDelay is how long the zone list takes to load after a country is picked
	ZoneDelay time.Duration
	// SavePrompt opens a "Save address?" dialog after a successful registration
	SavePrompt bool

	Navigations []string
	Registered  []entities.Registration
	Newsletter  []bool

	fields      map[entities.Locator]*browsertest.Node
	zone        *browsertest.Node
	terms       *browsertest.Node
	newsYes     *browsertest.Node
	accountForm map[entities.Locator]*browsertest.Node
}

// New - storefront with a single user jdoe/secret123
func New() *Storefront {
	s := &Storefront{
		D:         browsertest.NewDriver(),
		Users:     map[string]string{"jdoe": "secret123"},
		ZoneDelay: 20 * time.Millisecond,
	}
	s.D.OnNavigate = func(url string) {
		s.D.Mutate(func() { s.Navigations = append(s.Navigations, url) })
	}
	s.D.AddCookie(entities.Cookie{Name: "AC_SF_8CEFDA09D5", Value: "session"})
	s.loginScreen()
	s.registerScreen()
	s.accountScreen()
	return s
}

func (s *Storefront) value(loc entities.Locator) string {
	var v string
	s.D.Mutate(func() {
		if n := s.fields[loc]; n != nil {
			v = n.Attrs["value"]
		} else if n := s.accountForm[loc]; n != nil {
			v = n.Attrs["value"]
		}
	})
	return v
}

func (s *Storefront) loginScreen() {
	name := browsertest.Input("loginFrm_loginname")
	password := browsertest.NewNode("input", "id", "loginFrm_password", "type", "password", "value", "")
	button := browsertest.Button("Login")
	s.fields = map[entities.Locator]*browsertest.Node{
		pages.LoginNameInput:     name,
		pages.LoginPasswordInput: password,
	}

	submit := func() {
		user, pass := s.value(pages.LoginNameInput), s.value(pages.LoginPasswordInput)
		if want, ok := s.Users[user]; ok && want == pass {
			s.D.SetPage(pages.URL(BaseURL, pages.RouteAccount), "My Account", "")
			s.D.Put(pages.MyAccountIndicator, browsertest.Label(" My Account "))
			s.D.Put(pages.LoginPageLogoutLink, browsertest.Label("Logout"))
			return
		}
		s.D.Put(pages.LoginErrorMessage, browsertest.Label("Error: Incorrect login or password provided."))
	}
	button.OnClick = submit
	password.OnKey = func(key string) {
		if key == entities.KeyEnter {
			submit()
		}
	}

	s.D.Put(pages.LoginNameInput, name)
	s.D.Put(pages.LoginPasswordInput, password)
	s.D.Put(pages.LoginButton, button)
}

func (s *Storefront) registerScreen() {
	inputs := map[entities.Locator]string{
		pages.RegisterFirstNameInput:       "AccountFrm_firstname",
		pages.RegisterLastNameInput:        "AccountFrm_lastname",
		pages.RegisterEmailInput:           "AccountFrm_email",
		pages.RegisterTelephoneInput:       "AccountFrm_telephone",
		pages.RegisterFaxInput:             "AccountFrm_fax",
		pages.RegisterCompanyInput:         "AccountFrm_company",
		pages.RegisterAddressInput:         "AccountFrm_address_1",
		pages.RegisterCityInput:            "AccountFrm_city",
		pages.RegisterPostcodeInput:        "AccountFrm_postcode",
		pages.RegisterLoginNameInput:       "AccountFrm_loginname",
		pages.RegisterPasswordInput:        "AccountFrm_password",
		pages.RegisterConfirmPasswordInput: "AccountFrm_confirm",
	}
	for loc, id := range inputs {
		n := browsertest.Input(id)
		s.fields[loc] = n
		s.D.Put(loc, n)
	}

	s.zone = browsertest.Select("AccountFrm_zone_id", "", " --- Please Select --- ")
	country := browsertest.NewNode("select", "id", "AccountFrm_country_id")
	uk := browsertest.NewNode("option", "value", "222")
	uk.Text = "United Kingdom"
	uk.OnClick = func() {
		s.D.After(s.ZoneDelay, func() {
			surrey := browsertest.NewNode("option", "value", "3563")
			surrey.Text = "Surrey"
			s.zone.AddChildren(entities.TagName("option"), surrey)
		})
	}
	country.AddChildren(entities.TagName("option"), uk)
	s.D.Put(pages.RegisterCountrySelect, country)
	s.D.Put(pages.RegisterZoneSelect, s.zone)

	s.newsYes = browsertest.Radio("AccountFrm_newsletter1", "1")
	newsNo := browsertest.Radio("AccountFrm_newsletter0", "0")
	s.newsYes.OnClick = func() { s.D.Mutate(func() { newsNo.Selected = false }) }
	newsNo.OnClick = func() { s.D.Mutate(func() { s.newsYes.Selected = false }) }
	s.D.Put(pages.NewsletterYesRadio, s.newsYes)
	s.D.Put(pages.NewsletterNoRadio, newsNo)

	s.terms = browsertest.Checkbox("AccountFrm_agree")
	s.D.Put(pages.TermsCheckbox, s.terms)

	cont := browsertest.Button("Continue")
	cont.OnClick = s.submitRegistration
	cont.OnKey = func(key string) {
		if key == entities.KeyEnter {
			s.submitRegistration()
		}
	}
	s.D.Put(pages.RegisterContinueButton, cont)
}

func (s *Storefront) submitRegistration() {
	reg := entities.Registration{
		FirstName: s.value(pages.RegisterFirstNameInput),
		LastName:  s.value(pages.RegisterLastNameInput),
		Email:     s.value(pages.RegisterEmailInput),
		Telephone: s.value(pages.RegisterTelephoneInput),
		Address:   s.value(pages.RegisterAddressInput),
		City:      s.value(pages.RegisterCityInput),
		Postcode:  s.value(pages.RegisterPostcodeInput),
		LoginName: s.value(pages.RegisterLoginNameInput),
		Password:  s.value(pages.RegisterPasswordInput),
	}
	var agreed, newsletter bool
	var zone string
	s.D.Mutate(func() {
		agreed = s.terms.Selected
		newsletter = s.newsYes.Selected
		zone = s.zone.Attrs["value"]
	})

	switch {
	case strings.TrimSpace(reg.FirstName) == "":
		s.D.Put(pages.RegisterErrorMessage, browsertest.Label("First Name must be between 1 and 32 characters!"))
	case !strings.Contains(reg.Email, "@"):
		s.D.Put(pages.RegisterErrorMessage, browsertest.Label("Email Address does not appear to be valid!"))
	case zone == "":
		s.D.Put(pages.RegisterErrorMessage, browsertest.Label("Please select a region / state!"))
	case !agreed:
		s.D.Put(pages.RegisterErrorMessage, browsertest.Label("Error: You must agree to the Privacy Policy!"))
	default:
		s.D.Mutate(func() {
			s.Registered = append(s.Registered, reg)
			s.Newsletter = append(s.Newsletter, newsletter)
			s.Users[reg.LoginName] = reg.Password
		})
		s.D.SetPage(pages.URL(BaseURL, pages.RouteRegisterSuccess), "Your Account Has Been Created!", "")
		s.D.Put(pages.RegisterSuccessMessage, browsertest.Label(" Your Account Has Been Created! "))
		if s.SavePrompt {
			s.D.OpenAlert("Save address?")
		}
	}
}

func (s *Storefront) accountScreen() {
	s.D.Put(pages.AccountDashboardHeader, browsertest.Label("My Account"))
	for _, loc := range []entities.Locator{pages.OrderHistoryLink, pages.EditAccountLink, pages.ChangePasswordLink, pages.AccountLogoutLink} {
		s.D.Put(loc, browsertest.Label("link"))
	}

	s.accountForm = map[entities.Locator]*browsertest.Node{}
	values := map[entities.Locator]string{
		pages.AccountFirstNameInput: "John",
		pages.AccountLastNameInput:  "Doe",
		pages.AccountEmailInput:     "john.doe@example.com",
		pages.AccountTelephoneInput: "5551234",
	}
	for loc, v := range values {
		n := browsertest.Input(loc.Value)
		n.Attrs["value"] = v
		s.accountForm[loc] = n
		s.D.Put(loc, n)
	}

	save := browsertest.Button("Save")
	save.OnClick = func() {
		if !strings.Contains(s.value(pages.AccountEmailInput), "@") {
			s.D.Put(pages.AccountErrorMessage, browsertest.Label("E-Mail Address does not appear to be valid!"))
			return
		}
		s.D.Put(pages.AccountSuccessMessage, browsertest.Label("Success: Your account has been successfully updated."))
	}
	s.D.Put(pages.SaveChangesButton, save)

	for _, loc := range []entities.Locator{pages.CurrentPasswordInput, pages.NewPasswordInput, pages.ConfirmPasswordInput} {
		n := browsertest.NewNode("input", "id", loc.Value, "type", "password", "value", "")
		s.accountForm[loc] = n
		s.D.Put(loc, n)
	}
	change := browsertest.Button("Change Password")
	change.OnClick = func() {
		current := s.value(pages.CurrentPasswordInput)
		next, confirm := s.value(pages.NewPasswordInput), s.value(pages.ConfirmPasswordInput)
		user := ""
		s.D.Mutate(func() {
			for name, p := range s.Users {
				if p == current {
					user = name
				}
			}
		})
		switch {
		case user == "":
			s.D.Put(pages.AccountErrorMessage, browsertest.Label("Current password is incorrect"))
		case next != confirm:
			s.D.Put(pages.AccountErrorMessage, browsertest.Label("Password confirmation does not match password!"))
		default:
			s.D.Mutate(func() { s.Users[user] = next })
			s.D.Put(pages.AccountSuccessMessage, browsertest.Label("Success: Your password has been successfully updated."))
		}
	}
	s.D.Put(pages.ChangePasswordButton, change)
}
