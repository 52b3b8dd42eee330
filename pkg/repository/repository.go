package repository

import (
	"context"

	"github.com/garnizeh/keepalive/pkg/models"
)

// ProjectStore is the public contract for persistent project state. All
// reads and writes of project data go through it; concrete implementations
// live under internal/.

// CreateProjectParams carries the fields of a new project. TableName is
// required iff Method is models.MethodTable.
type CreateProjectParams struct {
	Name        string
	EndpointURL string
	Credential  string
	Method      models.CheckMethod
	TableName   string
	Enabled     bool
}

// UpdateProjectParams carries optional replacements for a project's
// connection fields. Nil means keep the current value.
type UpdateProjectParams struct {
	Name        *string
	EndpointURL *string
	Credential  *string
	Method      *models.CheckMethod
	TableName   *string
}

type ProjectStore interface {
	// Create validates and persists a new project.
	Create(ctx context.Context, p CreateProjectParams) (*models.Project, error)

	// Get returns the project with the given id.
	Get(ctx context.Context, id int64) (*models.Project, error)

	// List returns projects ordered by ascending id.
	List(ctx context.Context, enabledOnly bool) ([]models.Project, error)

	// Update replaces the provided connection fields and revalidates the
	// method/table pairing against the resulting project.
	Update(ctx context.Context, id int64, p UpdateProjectParams) (*models.Project, error)

	// SetEnabled toggles whether the project participates in runs.
	SetEnabled(ctx context.Context, id int64, enabled bool) (*models.Project, error)

	// RecordCheckResult folds a check outcome into the project's
	// last_status and last_checked fields. This is the only mutation path
	// used by the keepalive engine.
	RecordCheckResult(ctx context.Context, id int64, outcome models.CheckOutcome) error

	// Delete removes the project permanently. Ids are never reused.
	Delete(ctx context.Context, id int64) error
}
