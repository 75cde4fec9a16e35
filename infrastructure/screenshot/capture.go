// Package screenshot stores page screenshots taken for failed runs.
package screenshot

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"storefront_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Capturer struct {
	fs     afero.Fs
	dir    string
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewCapturer - screenshots are written to dir as <name>_<timestamp>.png
func NewCapturer(fs afero.Fs, dir string, logger logrus.FieldLogger) *Capturer {
	return &Capturer{fs: fs, dir: dir, logger: logger, now: time.Now}
}

// Capture - saves a screenshot of the current page and returns its path
func (c *Capturer) Capture(ctx context.Context, driver interfaces.Driver, name string) (string, error) {
	png, err := driver.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", c.dir, err)
	}

	file := fmt.Sprintf("%s_%s.png", unsafeChars.ReplaceAllString(name, "_"), c.now().Format("20060102_150405"))
	path := filepath.Join(c.dir, file)
	if err := afero.WriteFile(c.fs, path, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.logger.WithField("path", path).Debug("Screenshot written")
	return path, nil
}

// Ensure Capturer implements Screenshotter interface
var _ interfaces.Screenshotter = (*Capturer)(nil)
