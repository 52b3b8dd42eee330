package keepalive

import (
	"fmt"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/probe"
)

// Step is one concrete probe attempt in a project's check plan.
type Step struct {
	Description string
	Request     probe.Request
	// Fallback marks the terminal connectivity probe. A success here is
	// degraded: it proves reachability, not the primary method's purpose.
	Fallback bool
}

// Method returns the outcome method label for the step.
func (s Step) Method() string {
	switch {
	case s.Fallback:
		return models.OutcomeMethodFallback
	case s.Request.Kind == probe.KindTable:
		return "table:" + s.Request.Table
	default:
		return models.OutcomeMethodRPC
	}
}

// Plan resolves a project's configured method into the ordered probes to
// attempt: the primary method first, then always the connectivity fallback.
// It is a pure function and performs no I/O.
func Plan(p models.Project) []Step {
	steps := make([]Step, 0, 2)

	switch p.Method {
	case models.MethodTable:
		steps = append(steps, Step{
			Description: fmt.Sprintf("table read on %q", p.TableName),
			Request: probe.Request{
				Kind:       probe.KindTable,
				Endpoint:   p.EndpointURL,
				Credential: p.Credential,
				Table:      p.TableName,
			},
		})
	default:
		// rpc is the default method for any project that predates the
		// method column
		steps = append(steps, Step{
			Description: "rpc keepalive()",
			Request: probe.Request{
				Kind:       probe.KindRPC,
				Endpoint:   p.EndpointURL,
				Credential: p.Credential,
			},
		})
	}

	steps = append(steps, Step{
		Description: "connectivity fallback",
		Fallback:    true,
		Request: probe.Request{
			Kind:       probe.KindHealth,
			Endpoint:   p.EndpointURL,
			Credential: p.Credential,
		},
	})

	return steps
}
