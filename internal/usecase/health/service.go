package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all collections are open.
	Healthy Status = "ok"
	// Degraded indicates some collections failed to open.
	Degraded Status = "degraded"
	// Unhealthy indicates no collection is usable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual collection health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	collections CollectionLister
}

// New creates a Service.
func New(collections CollectionLister) *Service {
	return &Service{collections: collections}
}

// Check reports one result per registered collection.
func (s *Service) Check(_ context.Context) Report {
	names := s.collections.Names()
	failures := s.collections.Failures()

	checks := make(map[string]CheckResult, len(names))
	failed := 0
	for _, name := range names {
		if _, bad := failures[name]; bad {
			checks[name] = CheckError
			failed++
			continue
		}
		checks[name] = CheckOK
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(names):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
