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

func TestAssertTextPresent(t *testing.T) {
	ctx := context.Background()

	t.Run("matching text", func(t *testing.T) {
		p, d := newPage(t)
		d.Put(errorBanner, browsertest.Label("Error: Incorrect login or password provided."))

		assert.NoError(t, p.AssertTextPresent(ctx, errorBanner, "Incorrect login"))
	})

	t.Run("different text is an assertion failure", func(t *testing.T) {
		p, d := newPage(t)
		d.Put(errorBanner, browsertest.Label("Welcome back"))

		err := p.AssertTextPresent(ctx, errorBanner, "Incorrect login")

		var af *entities.AssertionFailure
		require.ErrorAs(t, err, &af)
		assert.Equal(t, "Incorrect login", af.Expected)
		assert.Equal(t, "Welcome back", af.Actual)
		assert.False(t, entities.IsTimeout(err))
	})

	t.Run("absent element is not an assertion failure", func(t *testing.T) {
		p, _ := newPage(t)

		err := p.AssertTextPresent(ctx, errorBanner, "Incorrect login")

		var nf *entities.ElementNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.False(t, entities.IsAssertion(err))
	})
}

func TestAssertElementPresent(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()

	err := p.AssertElementPresent(ctx, errorBanner)
	var af *entities.AssertionFailure
	require.ErrorAs(t, err, &af)
	assert.Equal(t, "present", af.Expected)
	assert.Equal(t, "absent", af.Actual)

	d.Put(errorBanner, browsertest.Label("oops"))
	assert.NoError(t, p.AssertElementPresent(ctx, errorBanner))
}

func TestAssertTitleAndURL(t *testing.T) {
	p, d := newPage(t)
	ctx := context.Background()
	d.SetPage("https://shop.test/index.php?rt=account/login", "Account Login", "")

	assert.NoError(t, p.AssertTitleContains(ctx, "Login"))
	assert.NoError(t, p.AssertURLContains(ctx, "rt=account/login"))

	err := p.AssertTitleContains(ctx, "My Account")
	var af *entities.AssertionFailure
	require.ErrorAs(t, err, &af)
	assert.Equal(t, "page title", af.Subject)
	assert.Equal(t, "Account Login", af.Actual)

	err = p.AssertURLContains(ctx, "account/success")
	require.ErrorAs(t, err, &af)
	assert.Equal(t, "https://shop.test/index.php?rt=account/login", af.Actual)
}

func TestAssertTitleContainsWaitsForNavigation(t *testing.T) {
	p, d := newPage(t)
	d.SetTitle("Loading")
	time.AfterFunc(50*time.Millisecond, func() { d.SetTitle("My Account") })

	assert.NoError(t, p.AssertTitleContains(context.Background(), "My Account"))
}
