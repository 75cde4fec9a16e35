package interfaces

import "context"

// Screenshotter captures the current page for failure reports
type Screenshotter interface {
	// Capture stores a screenshot named after name and returns where it went
	Capture(ctx context.Context, driver Driver, name string) (string, error)
}
