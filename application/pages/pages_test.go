package pages_test

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"storefront_automation/application/page"
	"storefront_automation/application/pages"
	"storefront_automation/application/wait"
	"storefront_automation/infrastructure/browser/browsertest"
)

// newPage - zero timeouts, so the wait defaults apply
func newPage(t *testing.T) (*page.BasePage, *browsertest.Driver) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	d := browsertest.NewDriver()
	return page.New(d, wait.Config{PollInterval: 10 * time.Millisecond}, logger), d
}

func TestMyAccountCheckUsesResolvedTimeout(t *testing.T) {
	base, d := newPage(t)
	d.PutAfter(50*time.Millisecond, pages.MyAccountIndicator, browsertest.Label("My Account"))

	login := pages.NewLoginPage(base, "https://shop.test")
	assert.True(t, login.IsMyAccountDisplayed(context.Background()))
}

func TestDashboardCheckUsesResolvedTimeout(t *testing.T) {
	base, d := newPage(t)
	d.PutAfter(50*time.Millisecond, pages.AccountDashboardHeader, browsertest.Label("My Account"))

	account := pages.NewAccountPage(base, "https://shop.test")
	assert.True(t, account.IsDashboardDisplayed(context.Background()))
}
