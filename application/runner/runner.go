package runner

import (
	"context"
	"fmt"
	"time"

	"storefront_automation/application/flows"
	"storefront_automation/application/page"
	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Runner executes scenarios against one driver. Runs are sequential; a
// Runner must not be shared between goroutines.
type Runner struct {
	registry *Registry
	session  *Session
	retry    flows.RetryPolicy
	shots    interfaces.Screenshotter
	results  interfaces.ResultStore
	logger   logrus.FieldLogger
	now      func() time.Time
}

// Options carries the collaborators a Runner reports to. Nil members are
// skipped.
type Options struct {
	Registry    *Registry
	Data        interfaces.ScenarioStore
	Validator   interfaces.RecordValidator
	Generator   interfaces.DataGenerator
	Screenshots interfaces.Screenshotter
	Results     interfaces.ResultStore
	Retry       flows.RetryPolicy
}

// New - runner driving p against the storefront at baseURL
func New(p *page.BasePage, baseURL string, opts Options) *Runner {
	registry := opts.Registry
	if registry == nil {
		registry = Default()
	}
	return &Runner{
		registry: registry,
		session: &Session{
			Page:      p,
			BaseURL:   baseURL,
			Data:      opts.Data,
			Validator: opts.Validator,
			Generator: opts.Generator,
		},
		retry:   opts.Retry,
		shots:   opts.Screenshots,
		results: opts.Results,
		logger:  p.Logger(),
		now:     time.Now,
	}
}

// Registry - the scenarios this runner knows
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Classify - maps a scenario error to the kind of failure it represents
func Classify(err error) entities.FailureKind {
	switch {
	case err == nil:
		return entities.FailureNone
	case entities.IsDataError(err):
		return entities.FailureData
	case entities.IsAssertion(err):
		return entities.FailureBehaviour
	default:
		return entities.FailureEnvironment
	}
}

// Run - executes the named scenario with the record at dataKey (the
// scenario default when empty). A failing scenario is reported through the
// result; the error is only set when the scenario is unknown or the result
// could not be stored.
func (r *Runner) Run(ctx context.Context, name, dataKey string) (entities.RunResult, error) {
	sc, err := r.registry.Lookup(name)
	if err != nil {
		return entities.RunResult{}, err
	}
	if dataKey == "" {
		dataKey = sc.DataKey
	}

	res := entities.RunResult{
		ID:        uuid.NewString(),
		Scenario:  sc.Name,
		DataKey:   dataKey,
		StartedAt: r.now(),
	}
	logger := r.logger.WithFields(logrus.Fields{"scenario": sc.Name, "run_id": res.ID})
	logger.Infof("Running scenario: %s", sc.Description)

	_, runErr := flows.RetryStep(ctx, r.retry, logger, sc.Name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, sc.run(ctx, r.session, dataKey)
	})
	res.Duration = r.now().Sub(res.StartedAt)

	if runErr == nil {
		res.Status = entities.RunStatusPassed
		logger.WithField("duration", res.Duration).Info("Scenario passed")
	} else {
		res.Status = entities.RunStatusFailed
		res.FailureKind = Classify(runErr)
		res.Message = runErr.Error()
		logger.WithField("failure_kind", res.FailureKind).Errorf("Scenario failed: %v", runErr)
		if res.FailureKind != entities.FailureData {
			res.Screenshot = r.capture(ctx, logger, res)
		}
	}

	if r.results != nil {
		if err := r.results.SaveResult(res); err != nil {
			return res, fmt.Errorf("failed to save result: %w", err)
		}
	}
	return res, nil
}

// capture - screenshot of the failing page. The run context may already be
// done, so a detached one is used.
func (r *Runner) capture(ctx context.Context, logger logrus.FieldLogger, res entities.RunResult) string {
	if r.shots == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	path, err := r.shots.Capture(ctx, r.session.Page.Driver(), fmt.Sprintf("%s_%s", res.Scenario, res.ID[:8]))
	if err != nil {
		logger.Warnf("Failed to capture screenshot: %v", err)
		return ""
	}
	logger.Infof("Screenshot saved: %s", path)
	return path
}

// RunAll - runs every registered scenario with its default data and stops
// early only when ctx is done or a result cannot be stored
func (r *Runner) RunAll(ctx context.Context) ([]entities.RunResult, error) {
	var results []entities.RunResult
	for _, name := range r.registry.Names() {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run canceled: %w", err)
		}
		res, err := r.Run(ctx, name, "")
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Passed - true when every result passed
func Passed(results []entities.RunResult) bool {
	for _, res := range results {
		if res.Status != entities.RunStatusPassed {
			return false
		}
	}
	return true
}
