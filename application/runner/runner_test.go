package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_automation/application/flows"
	"storefront_automation/application/flows/flowstest"
	"storefront_automation/application/page"
	"storefront_automation/application/wait"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
	"storefront_automation/infrastructure/screenshot"
	"storefront_automation/infrastructure/storage"
	"storefront_automation/infrastructure/testdata"
	"storefront_automation/infrastructure/validation"
)

var fixtures = map[string]string{
	"data/login.json": `{
  "valid_user": {"login_name": "jdoe", "password": "secret123"},
  "invalid_user": {"login_name": "jdoe", "password": "wrong", "expected_error": "Incorrect login or password"}
}`,
	"data/register.yaml": `
mandatory:
  firstname: Jane
  lastname: Roe
  address: 123 Main Street
  city: Guildford
  country_id: United Kingdom
  zone_id: Surrey
  postcode: GU1 1AA
  password: Passw0rd!
missing_first_name:
  lastname: Roe
  address: 123 Main Street
  city: Guildford
  country_id: United Kingdom
  zone_id: Surrey
  postcode: GU1 1AA
  password: Passw0rd!
  expected_error: First Name must be between 1 and 32 characters!
bad_email:
  firstname: Jane
  lastname: Roe
  email: jane.example.com
  address: 123 Main Street
  city: Guildford
  country_id: United Kingdom
  zone_id: Surrey
  postcode: GU1 1AA
  loginname: janeroe
  password: Passw0rd!
`,
	"data/account.json": `{
  "update": {
    "login": {"login_name": "jdoe", "password": "secret123"},
    "details": {"first_name": "Johnny", "telephone": "5559876"}
  },
  "change_password": {
    "login": {"login_name": "jdoe", "password": "secret123"},
    "change": {"current_password": "secret123", "new_password": "n3wSecret", "confirm_password": "n3wSecret"}
  }
}`,
}

type harness struct {
	store *flowstest.Storefront
	fs    afero.Fs
	hook  *logtest.Hook
	hist  interfaces.ResultStore
	run   *Runner
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{store: flowstest.New(), fs: afero.NewMemMapFs()}
	for path, body := range fixtures {
		require.NoError(t, afero.WriteFile(h.fs, path, []byte(body), 0o644))
	}
	data, err := storage.LoadScenarios(h.fs, "data")
	require.NoError(t, err)
	v, err := validation.NewValidator(validation.DefaultRules(), nil)
	require.NoError(t, err)

	var logger *logrus.Logger
	logger, h.hook = logtest.NewNullLogger()
	cfg := wait.Config{Timeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond, ShortTimeout: 60 * time.Millisecond}
	p := page.New(h.store.D, cfg, logger)

	h.hist = storage.NewRunHistory(h.fs, "reports/history.json")
	opts.Data = data
	opts.Validator = v
	opts.Generator = testdata.NewGenerator(1)
	if opts.Screenshots == nil {
		opts.Screenshots = screenshot.NewCapturer(h.fs, "reports/screenshots", logger)
	}
	if opts.Results == nil {
		opts.Results = h.hist
	}
	h.run = New(p, flowstest.BaseURL, opts)
	return h
}

func TestDefaultScenariosPass(t *testing.T) {
	for _, name := range Default().Names() {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, Options{})

			res, err := h.run.Run(context.Background(), name, "")
			require.NoError(t, err)
			assert.Equal(t, entities.RunStatusPassed, res.Status, res.Message)
			assert.Equal(t, entities.FailureNone, res.FailureKind)
			assert.Empty(t, res.Screenshot)
			assert.Len(t, res.ID, 36)

			history, err := h.hist.LoadHistory()
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, res.ID, history[0].ID)
		})
	}
}

func TestRegistrationUsesGeneratedIdentity(t *testing.T) {
	h := newHarness(t, Options{})

	res, err := h.run.Run(context.Background(), "register.newsletter", "")
	require.NoError(t, err)
	require.Equal(t, entities.RunStatusPassed, res.Status, res.Message)

	require.Len(t, h.store.Registered, 1)
	reg := h.store.Registered[0]
	assert.True(t, strings.HasSuffix(reg.Email, "@example.com"))
	assert.True(t, strings.HasPrefix(reg.LoginName, "user"))
	assert.Equal(t, []bool{true}, h.store.Newsletter)
}

func TestBehaviourFailure(t *testing.T) {
	h := newHarness(t, Options{})

	res, err := h.run.Run(context.Background(), "login.valid", "login.invalid_user")
	require.NoError(t, err)

	assert.Equal(t, entities.RunStatusFailed, res.Status)
	assert.Equal(t, entities.FailureBehaviour, res.FailureKind)
	assert.Equal(t, "login.invalid_user", res.DataKey)
	assert.Contains(t, res.Message, "Incorrect login or password")
	require.NotEmpty(t, res.Screenshot)
	ok, err := afero.Exists(h.fs, res.Screenshot)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDataFailuresSkipTheBrowser(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		key      string
	}{
		{"invalid record", "register.mandatory", "register.bad_email"},
		{"missing record", "login.valid", "login.ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})

			res, err := h.run.Run(context.Background(), tt.scenario, tt.key)
			require.NoError(t, err)
			assert.Equal(t, entities.RunStatusFailed, res.Status)
			assert.Equal(t, entities.FailureData, res.FailureKind)
			assert.Empty(t, res.Screenshot)
			assert.Empty(t, h.store.Navigations)
			assert.Zero(t, h.store.D.Screenshots())
		})
	}
}

func TestEnvironmentFailureIsRetried(t *testing.T) {
	h := newHarness(t, Options{Retry: flows.RetryPolicy{MaxRetries: 1, Wait: time.Millisecond}})
	h.store.ZoneDelay = time.Hour

	res, err := h.run.Run(context.Background(), "register.mandatory", "")
	require.NoError(t, err)

	assert.Equal(t, entities.FailureEnvironment, res.FailureKind)
	assert.Contains(t, res.Message, "not interactable")
	assert.NotEmpty(t, res.Screenshot)

	var retries int
	for _, e := range h.hook.AllEntries() {
		if strings.HasPrefix(e.Message, "Attempt 1/2 failed") {
			retries++
		}
	}
	assert.Equal(t, 1, retries)
	assert.Len(t, h.store.Navigations, 2)
}

func TestUnknownScenario(t *testing.T) {
	h := newHarness(t, Options{})

	_, err := h.run.Run(context.Background(), "checkout.guest", "")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

type brokenStore struct{}

func (brokenStore) SaveResult(entities.RunResult) error          { return errors.New("disk full") }
func (brokenStore) LoadHistory() ([]entities.RunResult, error) { return nil, nil }

func TestResultStoreFailure(t *testing.T) {
	h := newHarness(t, Options{Results: brokenStore{}})

	res, err := h.run.Run(context.Background(), "login.valid", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, entities.RunStatusPassed, res.Status)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want entities.FailureKind
	}{
		{nil, entities.FailureNone},
		{&entities.AssertionFailure{Subject: "login"}, entities.FailureBehaviour},
		{entities.ErrRecordNotFound, entities.FailureData},
		{&entities.ElementNotFoundError{Locator: entities.ID("x")}, entities.FailureEnvironment},
		{context.Canceled, entities.FailureEnvironment},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestRunAll(t *testing.T) {
	registry := NewRegistry(
		Scenario{Name: "b.fails", run: func(context.Context, *Session, string) error {
			return &entities.AssertionFailure{Subject: "title", Expected: "a", Actual: "b"}
		}},
		Scenario{Name: "a.passes", run: func(context.Context, *Session, string) error { return nil }},
	)
	h := newHarness(t, Options{Registry: registry})
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.run.now = func() time.Time { return start }

	results, err := h.run.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.passes", results[0].Scenario)
	assert.Equal(t, entities.RunStatusFailed, results[1].Status)
	assert.Equal(t, start, results[0].StartedAt)
	assert.False(t, Passed(results))
	assert.True(t, Passed(results[:1]))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err = h.run.RunAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"account.change_password",
		"account.dashboard",
		"account.update",
		"login.invalid",
		"login.valid",
		"register.after_cookie_wipe",
		"register.keyboard",
		"register.mandatory",
		"register.missing_fields",
		"register.newsletter",
	}, r.Names())

	sc, err := r.Lookup("register.keyboard")
	require.NoError(t, err)
	assert.Equal(t, "register.mandatory", sc.DataKey)
	assert.Len(t, r.Scenarios(), 10)
}
