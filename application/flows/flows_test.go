package flows_test

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_automation/application/flows"
	"storefront_automation/application/flows/flowstest"
	"storefront_automation/application/page"
	"storefront_automation/application/pages"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
)

func testConfig() wait.Config {
	return wait.Config{
		Timeout:      200 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		ShortTimeout: 60 * time.Millisecond,
	}
}

func basePage(t *testing.T, s *flowstest.Storefront) *page.BasePage {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	return page.New(s.D, testConfig(), logger)
}

func validRegistration() entities.Registration {
	return entities.Registration{
		FirstName: "Jane",
		LastName:  "Roe",
		Email:     "jane.roe@example.com",
		Telephone: "5550100",
		Address:   "123 Main Street",
		City:      "Guildford",
		CountryID: "United Kingdom",
		ZoneID:    "Surrey",
		Postcode:  "GU1 1AA",
		LoginName: "janeroe",
		Password:  "Passw0rd!",
	}
}

func TestLoginWithValidCredentials(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewLoginFlow(pages.NewLoginPage(basePage(t, s), flowstest.BaseURL))

	res, err := flow.Login(context.Background(), entities.Credentials{LoginName: "jdoe", Password: "secret123"}, flows.LoginOptions{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "My Account", res.Message)
	assert.Equal(t, []string{pages.URL(flowstest.BaseURL, pages.RouteLogin)}, s.Navigations)
}

func TestLoginWithKeyboard(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewLoginFlow(pages.NewLoginPage(basePage(t, s), flowstest.BaseURL))

	res, err := flow.Login(context.Background(), entities.Credentials{LoginName: "jdoe", Password: "secret123"}, flows.LoginOptions{UseKeyboard: true})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestLoginRejected(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewLoginFlow(pages.NewLoginPage(basePage(t, s), flowstest.BaseURL))
	ctx := context.Background()
	bad := entities.Credentials{LoginName: "jdoe", Password: "wrong"}

	res, err := flow.Login(ctx, bad, flows.LoginOptions{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Incorrect login or password")

	msg, err := flow.VerifyInvalidLogin(ctx, bad)
	require.NoError(t, err)
	assert.Equal(t, "Error: Incorrect login or password provided.", msg)
}

func TestLogout(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewLoginFlow(pages.NewLoginPage(basePage(t, s), flowstest.BaseURL))
	ctx := context.Background()

	_, err := flow.Login(ctx, entities.Credentials{LoginName: "jdoe", Password: "secret123"}, flows.LoginOptions{})
	require.NoError(t, err)
	require.NoError(t, flow.Logout(ctx))
}

func TestRegisterWithMandatoryFields(t *testing.T) {
	s := flowstest.New()
	s.SavePrompt = true
	flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))

	res, err := flow.Register(context.Background(), validRegistration(), flows.RegisterOptions{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Your Account Has Been Created!", res.Message)
	require.Len(t, s.Registered, 1)
	assert.Equal(t, "janeroe", s.Registered[0].LoginName)
	assert.Equal(t, []bool{false}, s.Newsletter)
	assert.Equal(t, []string{"dismiss:Save address?"}, s.D.AlertLog())
}

func TestRegisterVariants(t *testing.T) {
	tests := []struct {
		name       string
		newsletter bool
		opts       flows.RegisterOptions
	}{
		{name: "newsletter", newsletter: true},
		{name: "keyboard", opts: flows.RegisterOptions{UseKeyboard: true}},
		{name: "slow typing", opts: flows.RegisterOptions{SlowTyping: true, TypingDelay: time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := flowstest.New()
			flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))
			data := validRegistration()
			data.Newsletter = tt.newsletter

			res, err := flow.Register(context.Background(), data, tt.opts)
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, []bool{tt.newsletter}, s.Newsletter)
		})
	}
}

func TestRegisterAfterCookieWipe(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))
	ctx := context.Background()

	res, err := flow.Register(ctx, validRegistration(), flows.RegisterOptions{WipeCookies: true})
	require.NoError(t, err)
	assert.True(t, res.Success)

	cookies, err := s.D.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, cookies)
	assert.Len(t, s.Navigations, 2)
}

func TestRegisterWithMissingFields(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))
	data := validRegistration()
	data.FirstName = ""

	msg, err := flow.RegisterWithMissingFields(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "First Name must be between 1 and 32 characters!", msg)
	assert.Empty(t, s.Registered)
}

func TestRegisterWithoutTermsIsRejected(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))

	res, err := flow.Register(context.Background(), validRegistration(), flows.RegisterOptions{SkipTerms: true})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Privacy Policy")
}

func TestRegisterFailsWhenZoneNeverLoads(t *testing.T) {
	s := flowstest.New()
	s.ZoneDelay = time.Second
	flow := flows.NewRegisterFlow(pages.NewRegisterPage(basePage(t, s), flowstest.BaseURL))

	_, err := flow.Register(context.Background(), validRegistration(), flows.RegisterOptions{})

	var ni *entities.ElementNotInteractableError
	require.ErrorAs(t, err, &ni)
	assert.Equal(t, pages.RegisterZoneSelect, ni.Locator)
	assert.True(t, flows.Retryable(err))
}

func TestAccountFlow(t *testing.T) {
	s := flowstest.New()
	flow := flows.NewAccountFlow(pages.NewAccountPage(basePage(t, s), flowstest.BaseURL))
	ctx := context.Background()

	sections, err := flow.DashboardSections(ctx)
	require.NoError(t, err)
	assert.True(t, sections[pages.SectionOrderHistory])
	assert.True(t, sections[pages.SectionLogout])
	assert.False(t, sections[pages.SectionWishlist])

	res, err := flow.UpdateAccount(ctx, entities.AccountDetails{FirstName: "Johnny", Telephone: "5559876"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	details, err := flow.ReadAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.AccountDetails{
		FirstName: "Johnny",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Telephone: "5559876",
	}, details)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s := flowstest.New()
		flow := flows.NewAccountFlow(pages.NewAccountPage(basePage(t, s), flowstest.BaseURL))

		res, err := flow.ChangePassword(ctx, entities.PasswordChange{Current: "secret123", New: "n3wSecret", Confirm: "n3wSecret"})
		require.NoError(t, err)
		assert.True(t, res.Success)
	})

	t.Run("mismatch", func(t *testing.T) {
		s := flowstest.New()
		flow := flows.NewAccountFlow(pages.NewAccountPage(basePage(t, s), flowstest.BaseURL))

		res, err := flow.ChangePassword(ctx, entities.PasswordChange{Current: "secret123", New: "n3wSecret", Confirm: "other"})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Password confirmation does not match password!", res.Message)
	})
}
