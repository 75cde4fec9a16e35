package page_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_automation/domain/entities"
	"storefront_automation/infrastructure/browser/browsertest"
)

var (
	countrySelect = entities.XPath("//select[@id='AccountFrm_country_id']")
	zoneSelect    = entities.XPath("//select[@id='AccountFrm_zone_id']")
	termsCheckbox = entities.XPath("//input[@id='AccountFrm_agree']")
)

func TestSelectByVisibleTextAndValue(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	sel := browsertest.Select("AccountFrm_country_id", "222", "United Kingdom", "223", "United States")
	d.Put(countrySelect, sel)

	require.NoError(t, p.SelectByVisibleText(ctx, countrySelect, "United Kingdom"))
	assert.Equal(t, "222", sel.Attrs["value"])

	text, err := p.SelectedOptionText(ctx, countrySelect)
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", text)

	require.NoError(t, p.SelectByValue(ctx, countrySelect, "223"))
	text, err = p.SelectedOptionText(ctx, countrySelect)
	require.NoError(t, err)
	assert.Equal(t, "United States", text)

	require.NoError(t, p.SelectByIndex(ctx, countrySelect, 0))
	assert.Equal(t, "222", sel.Attrs["value"])

	options, err := p.Options(ctx, countrySelect)
	require.NoError(t, err)
	assert.Equal(t, []string{"United Kingdom", "United States"}, options)
}

func TestSelectWaitsForDependentOptions(t *testing.T) {
	p, d := newPage(t)
	zone := browsertest.Select("AccountFrm_zone_id", "", " --- Please Select --- ")
	d.Put(zoneSelect, zone)
	d.After(50*time.Millisecond, func() {
		surrey := browsertest.NewNode("option", "value", "3563")
		surrey.Text = "Surrey"
		zone.AddChildren(entities.TagName("option"), surrey)
	})

	require.NoError(t, p.SelectByVisibleText(context.Background(), zoneSelect, "Surrey"))
	assert.Equal(t, "3563", zone.Attrs["value"])
}

func TestSelectMissingOptionIsNotInteractable(t *testing.T) {
	p, d := newPage(t)
	d.Put(countrySelect, browsertest.Select("AccountFrm_country_id", "222", "United Kingdom"))

	err := p.SelectByVisibleText(context.Background(), countrySelect, "Atlantis")

	var ni *entities.ElementNotInteractableError
	require.ErrorAs(t, err, &ni)
	assert.Contains(t, ni.Action, "Atlantis")
	assert.True(t, entities.IsTimeout(err))
}

func TestCheckboxStateChanges(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	box := browsertest.Checkbox("AccountFrm_agree")
	d.Put(termsCheckbox, box)

	require.NoError(t, p.Check(ctx, termsCheckbox))
	require.NoError(t, p.Check(ctx, termsCheckbox))
	assert.Equal(t, 1, box.Clicks)

	checked, err := p.IsChecked(ctx, termsCheckbox)
	require.NoError(t, err)
	assert.True(t, checked)

	require.NoError(t, p.Toggle(ctx, termsCheckbox))
	assert.False(t, box.Selected)

	require.NoError(t, p.Uncheck(ctx, termsCheckbox))
	assert.Equal(t, 2, box.Clicks)
}

func TestRadioSelection(t *testing.T) {
	p, d := newPage(t)
	yes := entities.ID("AccountFrm_newsletter1")
	radio := browsertest.Radio("AccountFrm_newsletter1", "1")
	d.Put(yes, radio)

	require.NoError(t, p.SetChecked(context.Background(), yes, true))
	assert.True(t, p.IsSelected(context.Background(), yes))
}

func TestKeyboardHelpers(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	field := browsertest.Input("loginFrm_loginname")
	var pressed []string
	field.OnKey = func(k string) { pressed = append(pressed, k) }
	d.Put(loginName, field)

	require.NoError(t, p.TypeAndTab(ctx, loginName, "jdoe"))
	assert.Equal(t, "jdoe", field.Attrs["value"])
	assert.Equal(t, []string{entities.KeyTab}, pressed)

	require.NoError(t, p.PressBackspace(ctx, loginName, 1))
	assert.Equal(t, "jdo", field.Attrs["value"])

	require.NoError(t, p.PressBackspace(ctx, loginName, 2))
	assert.Equal(t, "j", field.Attrs["value"])

	require.NoError(t, p.TypeAndEnter(ctx, loginName, "jane"))
	require.NoError(t, p.PressEscape(ctx, loginName))
	assert.Equal(t, []string{entities.KeyTab, entities.KeyBackspace, entities.KeyBackspace, entities.KeyEnter, entities.KeyEscape}, pressed)
}

func TestAlerts(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()

	assert.False(t, p.IsAlertPresent(ctx))

	d.OpenAlert("Save address?")
	text, err := p.DismissAlert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Save address?", text)

	d.OpenAlert("Your name?")
	require.NoError(t, p.TypeInAlert(ctx, "Jane"))

	d.OpenAlert("Done")
	text, err = p.AcceptAlert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Done", text)

	assert.Equal(t, []string{"dismiss:Save address?", "accept:Your name?:Jane", "accept:Done"}, d.AlertLog())

	_, err = p.AcceptAlert(ctx)
	assert.True(t, entities.IsTimeout(err))
	assert.ErrorIs(t, err, entities.ErrNoAlert)
}

func TestNavigationPassthroughs(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()

	require.NoError(t, p.NavigateTo(ctx, "https://shop.test/index.php?rt=account/login"))
	require.NoError(t, p.NavigateTo(ctx, "https://shop.test/index.php?rt=account/create"))
	require.NoError(t, p.NavigateBack(ctx))

	url, err := p.GetCurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/index.php?rt=account/login", url)

	require.NoError(t, p.NavigateForward(ctx))
	url, err = p.GetCurrentURL(ctx)
	require.NoError(t, err)
	assert.Contains(t, url, "account/create")
	require.NoError(t, p.RefreshPage(ctx))

	require.NoError(t, p.ScrollToTop(ctx))
	require.NoError(t, p.ScrollToBottom(ctx))
	require.NoError(t, p.ScrollBy(ctx, 0, 250))
	assert.Len(t, d.Scripts(), 3)

	png, err := p.TakeScreenshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestFramesAndCookies(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	frame := browsertest.NewNode("iframe", "id", "checkout")
	d.Put(entities.ID("checkout"), frame)
	d.AddCookie(entities.Cookie{Name: "AC_SF_8CEFDA09D5", Value: "abc"})
	d.AddCookie(entities.Cookie{Name: "language", Value: "en"})

	require.NoError(t, p.SwitchToFrame(ctx, entities.ID("checkout")))
	assert.Same(t, frame, d.Frame())
	require.NoError(t, p.SwitchToDefaultContent(ctx))
	assert.Nil(t, d.Frame())

	require.NoError(t, p.DeleteCookie(ctx, "language"))
	cookies, err := p.Cookies(ctx)
	require.NoError(t, err)
	require.Len(t, cookies, 1)

	require.NoError(t, p.DeleteAllCookies(ctx))
	cookies, err = p.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestWaitHelpers(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	d.PutAfter(30*time.Millisecond, errorBanner, browsertest.Label("x"))

	_, err := p.WaitForVisible(ctx, errorBanner)
	require.NoError(t, err)
	_, err = p.WaitForClickable(ctx, errorBanner)
	require.NoError(t, err)

	d.RemoveAfter(30*time.Millisecond, errorBanner)
	require.NoError(t, p.WaitForInvisible(ctx, errorBanner))
}
