package screenshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_automation/infrastructure/browser/browsertest"
)

func TestCaptureWritesPNG(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger, _ := logtest.NewNullLogger()
	c := NewCapturer(fs, filepath.Join("reports", "screenshots"), logger)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC) }
	d := browsertest.NewDriver()

	path, err := c.Capture(context.Background(), d, "register.mandatory 1/2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("reports", "screenshots", "register.mandatory_1_2_20240501_090500.png"), path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data)
	assert.Equal(t, 1, d.Screenshots())
}

func TestCaptureDriverFailure(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	c := NewCapturer(afero.NewMemMapFs(), "shots", logger)
	d := browsertest.NewDriver()
	require.NoError(t, d.Close())

	_, err := c.Capture(context.Background(), d, "login")
	assert.Error(t, err)
}

func TestCaptureReadOnlyFs(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	c := NewCapturer(afero.NewReadOnlyFs(afero.NewMemMapFs()), "shots", logger)

	_, err := c.Capture(context.Background(), browsertest.NewDriver(), "login")
	assert.Error(t, err)
}
