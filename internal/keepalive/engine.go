package keepalive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/probe"
	"github.com/garnizeh/keepalive/pkg/repository"
)

// DefaultProjectTimeout bounds the total time spent on one project's plan.
const DefaultProjectTimeout = 12 * time.Second

// Prober executes one probe request against a remote endpoint.
type Prober interface {
	Do(ctx context.Context, req probe.Request) error
}

// Engine runs keepalive checks over the registered projects, one project at
// a time. Sequential execution is deliberate: it bounds memory on
// constrained hosts and removes any need for per-project locking.
type Engine struct {
	store          repository.ProjectStore
	prober         Prober
	projectTimeout time.Duration
	logger         *slog.Logger
}

func NewEngine(store repository.ProjectStore, prober Prober, projectTimeout time.Duration, logger *slog.Logger) *Engine {
	if projectTimeout <= 0 {
		projectTimeout = DefaultProjectTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, prober: prober, projectTimeout: projectTimeout, logger: logger}
}

// Run performs one full pass over the projects and reports per-project
// outcomes. A failing project check never aborts the run; an unreachable
// store does, because results could not be recorded truthfully.
func (e *Engine) Run(ctx context.Context, enabledOnly bool) (*models.RunReport, error) {
	report := models.NewRunReport()

	projects, err := e.store.List(ctx, enabledOnly)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	e.logger.Info("keepalive run starting", "run_id", report.RunID, "projects", len(projects))

	for _, p := range projects {
		outcome := e.checkProject(ctx, p)

		// exactly one record per project per run
		if err := e.store.RecordCheckResult(ctx, p.ID, outcome); err != nil {
			return nil, fmt.Errorf("record result for project %d: %w", p.ID, err)
		}
		report.Add(outcome)
	}

	report.Duration = time.Since(report.StartedAt)
	e.logger.Info("keepalive run finished",
		"run_id", report.RunID,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", report.Duration)

	return report, nil
}

// checkProject attempts the project's plan steps in order and stops at the
// first success. When every step fails the outcome carries the last step's
// error; earlier errors are only logged.
func (e *Engine) checkProject(ctx context.Context, p models.Project) models.CheckOutcome {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.projectTimeout)
	defer cancel()

	steps := Plan(p)
	var last Step
	var lastErr error

	for _, step := range steps {
		last = step
		if err := e.prober.Do(ctx, step.Request); err != nil {
			lastErr = err
			e.logger.Warn("probe failed", "project", p.Name, "step", step.Description, "err", err)
			continue
		}

		detail := step.Description + " succeeded"
		if step.Fallback {
			detail = "fallback connectivity check succeeded"
		}
		e.logger.Info("probe succeeded", "project", p.Name, "method", step.Method())
		return models.CheckOutcome{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Method:      step.Method(),
			Succeeded:   true,
			Detail:      detail,
			Duration:    time.Since(start),
		}
	}

	e.logger.Error("all probes failed", "project", p.Name, "err", lastErr)
	return models.CheckOutcome{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Method:      last.Method(),
		Succeeded:   false,
		Detail:      lastErr.Error(),
		Duration:    time.Since(start),
	}
}
