package browser

import (
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"storefront_automation/domain/entities"
)

func validOptions() Options {
	return Options{
		Backend:      BackendSelenium,
		Browser:      BrowserChrome,
		WindowWidth:  1920,
		WindowHeight: 1080,
		DriverPort:   9515,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(o *Options)
		wantErr bool
	}{
		{"defaults", func(o *Options) {}, false},
		{"empty names", func(o *Options) { o.Backend, o.Browser = "", "" }, false},
		{"mixed case", func(o *Options) { o.Backend, o.Browser = " Playwright ", "WebKit" }, false},
		{"webkit on selenium", func(o *Options) { o.Browser = BrowserWebKit }, true},
		{"unknown backend", func(o *Options) { o.Backend = "puppeteer" }, true},
		{"unknown browser", func(o *Options) { o.Browser = "opera" }, true},
		{"zero window", func(o *Options) { o.WindowWidth = 0 }, true},
		{"no port", func(o *Options) { o.DriverPort = 0 }, true},
		{"remote without port", func(o *Options) { o.DriverPort, o.RemoteURL = 0, "http://grid:4444/wd/hub" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOptions()
			tt.modify(&o)
			err := o.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptionsValidateNormalises(t *testing.T) {
	o := Options{Backend: " Playwright ", Browser: "WebKit", WindowWidth: 800, WindowHeight: 600}
	require.NoError(t, o.Validate())
	assert.Equal(t, BackendPlaywright, o.Backend)
	assert.Equal(t, BrowserWebKit, o.Browser)

	o = Options{WindowWidth: 800, WindowHeight: 600, DriverPort: 4444}
	require.NoError(t, o.Validate())
	assert.Equal(t, BackendSelenium, o.Backend)
	assert.Equal(t, BrowserChrome, o.Browser)
}

func TestNewDriverRejectsInvalidOptions(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	o := validOptions()
	o.Browser = "opera"

	d, err := NewDriver(o, logger)
	assert.Error(t, err)
	assert.Nil(t, d)
	assert.Empty(t, hook.AllEntries())
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `'Continue'`, xpathLiteral("Continue"))
	assert.Equal(t, `"I'm new"`, xpathLiteral("I'm new"))
	assert.Equal(t, `concat('say "hi" it', "'", 's me')`, xpathLiteral(`say "hi" it's me`))
}

func TestSeleniumBy(t *testing.T) {
	tests := []struct {
		loc       entities.Locator
		wantBy    string
		wantValue string
	}{
		{entities.ID("loginFrm_loginname"), selenium.ByID, "loginFrm_loginname"},
		{entities.CSS("button[title='Login']"), selenium.ByCSSSelector, "button[title='Login']"},
		{entities.XPath("//h1"), selenium.ByXPATH, "//h1"},
		{entities.Name("email"), selenium.ByName, "email"},
		{entities.LinkText("Logoff"), selenium.ByLinkText, "Logoff"},
		{entities.ClassName("alert-danger"), selenium.ByClassName, "alert-danger"},
		{entities.TagName("h1"), selenium.ByTagName, "h1"},
		{entities.Text(" Welcome back "), selenium.ByXPATH, "//*[contains(normalize-space(text()), 'Welcome back')]"},
	}
	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			by, value, err := seleniumBy(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBy, by)
			assert.Equal(t, tt.wantValue, value)
		})
	}

	_, _, err := seleniumBy(entities.Locator{Strategy: "shadow", Value: "x"})
	assert.ErrorIs(t, err, entities.ErrInvalidLocator)
	_, _, err = seleniumBy(entities.ID(" "))
	assert.ErrorIs(t, err, entities.ErrInvalidLocator)
}

func TestPlaywrightSelector(t *testing.T) {
	tests := []struct {
		loc  entities.Locator
		want string
	}{
		{entities.ID("loginFrm_loginname"), `[id="loginFrm_loginname"]`},
		{entities.CSS("#AccountFrm button"), "css=#AccountFrm button"},
		{entities.XPath("//h1"), "xpath=//h1"},
		{entities.Name("email"), `[name="email"]`},
		{entities.LinkText("Logoff"), "xpath=//a[normalize-space(.)='Logoff']"},
		{entities.ClassName("alert-danger"), "css=.alert-danger"},
		{entities.TagName("h1"), "css=h1"},
		{entities.Text("Welcome"), "xpath=//*[contains(normalize-space(text()), 'Welcome')]"},
	}
	for _, tt := range tests {
		t.Run(tt.loc.String(), func(t *testing.T) {
			got, err := playwrightSelector(tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := playwrightSelector(entities.Locator{Strategy: entities.ByCSS})
	assert.ErrorIs(t, err, entities.ErrInvalidLocator)
}

func TestMapSeleniumError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{&selenium.Error{Err: "no such element", Message: "#missing"}, entities.ErrNoSuchElement},
		{&selenium.Error{LegacyCode: 7}, entities.ErrNoSuchElement},
		{&selenium.Error{Err: "stale element reference"}, entities.ErrStaleElement},
		{&selenium.Error{LegacyCode: 10}, entities.ErrStaleElement},
		{&selenium.Error{Err: "no such alert"}, entities.ErrNoAlert},
		{&selenium.Error{Err: "invalid selector"}, entities.ErrInvalidLocator},
		{&selenium.Error{Err: "invalid session id"}, entities.ErrDriverClosed},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, mapSeleniumError(tt.err), tt.want, "%v", tt.err)
	}

	assert.NoError(t, mapSeleniumError(nil))
	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapSeleniumError(plain))
	other := &selenium.Error{Err: "element click intercepted"}
	assert.Equal(t, error(other), mapSeleniumError(other))
}

func TestMapPlaywrightError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"Element is not attached to the DOM", entities.ErrStaleElement},
		{"Execution context was destroyed, most likely because of a navigation", entities.ErrStaleElement},
		{"'//h1[' is not a valid XPath expression", entities.ErrInvalidLocator},
		{"Target page, context or browser has been closed", entities.ErrDriverClosed},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, mapPlaywrightError(errors.New(tt.msg)), tt.want, tt.msg)
	}
	assert.NoError(t, mapPlaywrightError(nil))
}

func TestSplitKeys(t *testing.T) {
	got := splitKeys("jdoe" + entities.KeyTab + "secret" + entities.KeyEnter)
	assert.Equal(t, []keyChunk{
		{text: "jdoe"},
		{key: "Tab"},
		{text: "secret"},
		{key: "Enter"},
	}, got)

	assert.Empty(t, splitKeys(""))
	assert.Equal(t, []keyChunk{{key: "Control"}, {text: "a"}}, splitKeys(entities.KeyControl+"a"))
}

func TestSeleniumCapabilities(t *testing.T) {
	o := validOptions()
	o.Headless = true
	caps := seleniumCapabilities(o, "/usr/bin/chromium")

	assert.Equal(t, BrowserChrome, caps["browserName"])
	assert.Equal(t, true, caps["acceptInsecureCerts"])
	chromeCaps, ok := caps[chrome.CapabilitiesKey].(chrome.Capabilities)
	require.True(t, ok)
	assert.Contains(t, chromeCaps.Args, "--headless=new")
	assert.Contains(t, chromeCaps.Args, "--window-size=1920,1080")
	assert.Equal(t, "/usr/bin/chromium", chromeCaps.Path)

	o.Browser = BrowserFirefox
	o.Headless = false
	caps = seleniumCapabilities(o, "")
	assert.Equal(t, BrowserFirefox, caps["browserName"])
	_, hasChrome := caps[chrome.CapabilitiesKey]
	assert.False(t, hasChrome)
}
