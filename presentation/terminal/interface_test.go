package terminal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_automation/application/flows/flowstest"
	"storefront_automation/application/runner"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
	"storefront_automation/infrastructure/browser"
	"storefront_automation/infrastructure/config"
)

func init() {
	color.NoColor = true
}

const loginData = `{
  "valid_user": {"login_name": "jdoe", "password": "secret123"},
  "invalid_user": {"login_name": "jdoe", "password": "wrong", "expected_error": "Incorrect login or password"}
}`

type fixture struct {
	term   *TerminalInterface
	store  *flowstest.Storefront
	fs     afero.Fs
	out    *bytes.Buffer
	opened []browser.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: flowstest.New(), fs: afero.NewMemMapFs(), out: &bytes.Buffer{}}
	require.NoError(t, afero.WriteFile(f.fs, "data/login.json", []byte(loginData), 0o644))

	settings := &config.Settings{
		Environment:      "dev",
		BaseURL:          flowstest.BaseURL,
		Browser:          browser.BrowserChrome,
		Backend:          browser.BackendSelenium,
		Headless:         "true",
		DefaultTimeout:   config.Seconds(200 * time.Millisecond),
		PollingFrequency: config.Seconds(10 * time.Millisecond),
		ShortTimeout:     config.Seconds(60 * time.Millisecond),
		WindowWidth:      1280,
		WindowHeight:     720,
		DriverPort:       9515,
		ReportsDir:       "reports",
		DataDir:          "data",
	}
	logger, _ := logtest.NewNullLogger()
	open := func(opts browser.Options, _ logrus.FieldLogger) (interfaces.Driver, error) {
		f.opened = append(f.opened, opts)
		return f.store.D, nil
	}
	f.term = newTerminal(settings, logger, f.out, f.fs, open)
	return f
}

func (f *fixture) run(args ...string) error {
	f.out.Reset()
	return f.term.Run(context.Background(), args)
}

func TestListCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("list"))
	assert.Contains(t, f.out.String(), "login.valid")
	assert.Contains(t, f.out.String(), "register.mandatory")
	assert.Empty(t, f.opened)
}

func TestDataCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("data"))
	assert.Equal(t, "login.invalid_user\nlogin.valid_user\n", f.out.String())

	require.NoError(t, f.run("data", "login.valid_user"))
	assert.Contains(t, f.out.String(), "login_name")
	assert.Contains(t, f.out.String(), "jdoe")

	err := f.run("data", "login.ghost")
	assert.ErrorIs(t, err, entities.ErrRecordNotFound)
}

func TestRunCommandPasses(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("run", "login.valid"))
	assert.Contains(t, f.out.String(), "PASS login.valid [login.valid_user]")
	assert.Contains(t, f.out.String(), "1/1 scenarios passed")

	require.Len(t, f.opened, 1)
	assert.True(t, f.opened[0].Headless)
	assert.Equal(t, 200*time.Millisecond, f.opened[0].ActionTimeout)

	require.NoError(t, f.run("history"))
	assert.Contains(t, f.out.String(), "PASS login.valid")

	require.NoError(t, f.term.Close())
	assert.True(t, f.store.D.Closed())
	assert.NoError(t, f.term.Close())
}

func TestRunCommandReportsFailure(t *testing.T) {
	f := newFixture(t)

	err := f.run("run", "login.valid", "--data", "login.invalid_user")
	assert.ErrorIs(t, err, errScenariosFailed)
	assert.Contains(t, f.out.String(), "FAIL login.valid [login.invalid_user]")
	assert.Contains(t, f.out.String(), "behaviour failure")
	assert.Contains(t, f.out.String(), "screenshot: reports/screenshots/")
	assert.Contains(t, f.out.String(), "0/1 scenarios passed")
}

func TestRunCommandRejectsBadArguments(t *testing.T) {
	f := newFixture(t)

	err := f.run("run", "checkout.guest")
	assert.ErrorIs(t, err, runner.ErrUnknownScenario)

	err = f.run("run", "login.valid", "login.invalid", "--data", "login.valid_user")
	assert.Error(t, err)

	assert.Empty(t, f.opened)
}

func TestRunCommandBrowserFailure(t *testing.T) {
	f := newFixture(t)
	f.term.openDriver = func(browser.Options, logrus.FieldLogger) (interfaces.Driver, error) {
		return nil, errors.New("chromedriver not found")
	}

	err := f.run("run", "login.valid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize browser")
	assert.NoError(t, f.term.Close())
}

func TestHistoryCommandEmpty(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("history"))
	assert.Contains(t, f.out.String(), "No runs recorded yet")
}

func TestEnvCommand(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("env"))
	assert.Contains(t, f.out.String(), flowstest.BaseURL)
	assert.Contains(t, f.out.String(), "selenium")
}
