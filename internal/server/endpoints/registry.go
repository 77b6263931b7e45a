package endpoints

import (
	"github.com/jadabouassaly/PDF-Splitting/internal/api"
	"github.com/jadabouassaly/PDF-Splitting/internal/splitter"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoint
		&HealthEndpoint{},

		// Split endpoints, one per variant
		&SplitEndpoint{Variant: splitter.CallList},
		&SplitEndpoint{Variant: splitter.GroupList},

		// Report endpoints (grouping diagnostics, no archive)
		&ReportEndpoint{Variant: splitter.CallList},
		&ReportEndpoint{Variant: splitter.GroupList},
	}
}
