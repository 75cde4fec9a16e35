package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"storefront_automation/application/flows"
	"storefront_automation/application/page"
	"storefront_automation/application/runner"
	"storefront_automation/application/wait"
	"storefront_automation/domain/interfaces"
	"storefront_automation/infrastructure/browser"
	"storefront_automation/infrastructure/config"
	"storefront_automation/infrastructure/screenshot"
	"storefront_automation/infrastructure/storage"
	"storefront_automation/infrastructure/testdata"
	"storefront_automation/infrastructure/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DriverFactory opens the browser session scenarios run against
type DriverFactory func(opts browser.Options, logger logrus.FieldLogger) (interfaces.Driver, error)

type TerminalInterface struct {
	settings   *config.Settings
	logger     *logrus.Logger
	out        io.Writer
	fs         afero.Fs
	openDriver DriverFactory

	driver interfaces.Driver
}

// NewTerminalInterface - reads settings from .env and the environment and
// prepares the command line; no browser is started until a scenario runs
func NewTerminalInterface(out io.Writer) (*TerminalInterface, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(settings.LogLevel, os.Stderr)
	return newTerminal(settings, logger, out, afero.NewOsFs(), browser.NewDriver), nil
}

func newTerminal(settings *config.Settings, logger *logrus.Logger, out io.Writer, fs afero.Fs, openDriver DriverFactory) *TerminalInterface {
	return &TerminalInterface{
		settings:   settings,
		logger:     logger,
		out:        out,
		fs:         fs,
		openDriver: openDriver,
	}
}

// Run - executes the command line in args
func (t *TerminalInterface) Run(ctx context.Context, args []string) error {
	root := t.rootCommand()
	root.SetArgs(args)
	root.SetOut(t.out)
	root.SetErr(t.out)
	return root.ExecuteContext(ctx)
}

// Close - closes the browser if one was started
func (t *TerminalInterface) Close() error {
	if t.driver == nil {
		return nil
	}
	err := t.driver.Close()
	t.driver = nil
	return err
}

func (t *TerminalInterface) browserOptions() browser.Options {
	s := t.settings
	return browser.Options{
		Backend:         s.Backend,
		Browser:         s.Browser,
		Headless:        s.IsHeadless(),
		WindowWidth:     s.WindowWidth,
		WindowHeight:    s.WindowHeight,
		PageLoadTimeout: s.PageLoadTimeout.Duration(),
		ActionTimeout:   s.DefaultTimeout.Duration(),
		DriverPath:      s.DriverPath,
		ChromeBinary:    s.ChromeBinary,
		RemoteURL:       s.RemoteURL,
		DriverPort:      s.DriverPort,
	}
}

func (t *TerminalInterface) waitConfig() wait.Config {
	return wait.Config{
		Timeout:      t.settings.DefaultTimeout.Duration(),
		PollInterval: t.settings.PollingFrequency.Duration(),
		ShortTimeout: t.settings.ShortTimeout.Duration(),
	}
}

func (t *TerminalInterface) history() interfaces.ResultStore {
	return storage.NewRunHistory(t.fs, t.settings.HistoryPath())
}

func (t *TerminalInterface) scenarioData() (interfaces.ScenarioStore, error) {
	return storage.LoadScenarios(t.fs, t.settings.DataDir)
}

// newRunner - loads the data files, then starts the browser
func (t *TerminalInterface) newRunner() (*runner.Runner, error) {
	data, err := t.scenarioData()
	if err != nil {
		return nil, err
	}
	validator, err := validation.NewValidator(validation.DefaultRules(), t.logger)
	if err != nil {
		return nil, err
	}

	if t.driver == nil {
		driver, err := t.openDriver(t.browserOptions(), t.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize browser: %w", err)
		}
		t.driver = driver
	}

	p := page.New(t.driver, t.waitConfig(), t.logger)
	return runner.New(p, t.settings.BaseURL, runner.Options{
		Data:        data,
		Validator:   validator,
		Generator:   testdata.NewGenerator(time.Now().UnixNano()),
		Screenshots: screenshot.NewCapturer(t.fs, t.settings.ScreenshotsDir(), t.logger),
		Results:     t.history(),
		Retry: flows.RetryPolicy{
			MaxRetries: t.settings.MaxRetries,
			Wait:       t.settings.RetryDelay.Duration(),
		},
	}), nil
}
