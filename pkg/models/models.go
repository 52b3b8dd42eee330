package models

// Domain models matching the database schema in db/migrations/0001_projects.sql

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckMethod is the configured keepalive method for a project.
type CheckMethod string

const (
	MethodRPC   CheckMethod = "rpc"
	MethodTable CheckMethod = "table"
)

// Valid reports whether m is one of the known check methods.
func (m CheckMethod) Valid() bool {
	return m == MethodRPC || m == MethodTable
}

// Status is the coarse classification of a project's last check.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusUnknown Status = "unknown"
)

// StatusOf classifies a stored last_status string. An empty string means the
// project was never checked.
func StatusOf(lastStatus string) Status {
	switch {
	case lastStatus == "":
		return StatusUnknown
	case strings.HasPrefix(lastStatus, string(StatusSuccess)):
		return StatusSuccess
	default:
		return StatusFailed
	}
}

// Project is a registered remote database project to be kept alive.
type Project struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	EndpointURL string      `json:"endpoint_url" db:"endpoint_url"`
	Credential  string      `json:"-" db:"credential"`
	Method      CheckMethod `json:"check_method" db:"check_method"`
	TableName   string      `json:"table_name,omitempty" db:"table_name"`
	Enabled     bool        `json:"enabled" db:"enabled"`
	LastStatus  string      `json:"last_status,omitempty" db:"last_status"`
	LastChecked int64       `json:"last_checked,omitempty" db:"last_checked"`
	Created     int64       `json:"created" db:"created"`
	Updated     int64       `json:"updated" db:"updated"`
}

// MaskedCredential returns the project credential in displayable form.
func (p Project) MaskedCredential() string {
	return MaskCredential(p.Credential)
}

// MaskCredential hides all but the first and last four characters of a secret.
// Short secrets are fully masked.
func MaskCredential(s string) string {
	if len(s) <= 12 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Method values recorded on a CheckOutcome. Table outcomes carry the table
// name as "table:<name>".
const (
	OutcomeMethodRPC      = "rpc"
	OutcomeMethodFallback = "fallback"
)

// CheckOutcome is the result of one full check of a single project: the
// method that succeeded, or the last one attempted when all failed.
type CheckOutcome struct {
	ProjectID   int64         `json:"project_id"`
	ProjectName string        `json:"project_name"`
	Method      string        `json:"method_used"`
	Succeeded   bool          `json:"succeeded"`
	Detail      string        `json:"detail"`
	Duration    time.Duration `json:"duration"`
}

// StatusLabel renders the outcome as the status string persisted on the
// project row. Fallback successes stay distinguishable from full successes.
func (o CheckOutcome) StatusLabel() string {
	switch {
	case o.Succeeded && o.Method == OutcomeMethodFallback:
		return "success (fallback)"
	case o.Succeeded:
		return "success"
	default:
		return "failed: " + o.Detail
	}
}

// RunReport aggregates the outcomes of one keepalive run in iteration order.
type RunReport struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Outcomes  []CheckOutcome `json:"outcomes"`
	Succeeded int            `json:"succeeded_count"`
	Failed    int            `json:"failed_count"`
}

func NewRunReport() *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Add appends an outcome and updates the aggregate counts. Degraded fallback
// successes count as succeeded.
func (r *RunReport) Add(o CheckOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded {
		r.Succeeded++
	} else {
		r.Failed++
	}
}
