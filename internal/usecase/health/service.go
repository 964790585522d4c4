// Package health aggregates readiness of the search engine, the grid index and
// the identity sequence.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; queries still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the search engine is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in a report.
const (
	ComponentEngine   = "search_engine"
	ComponentIndex    = "index"
	ComponentSequence = "sequence"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine   Pinger
	indexes  IndexChecker
	index    string
	sequence Pinger
}

// New creates a Service over the search engine.
func New(engine Pinger) *Service {
	return &Service{engine: engine}
}

// WithIndex also checks that index exists.
func (s *Service) WithIndex(indexes IndexChecker, index string) *Service {
	s.indexes = indexes
	s.index = index
	return s
}

// WithSequence also checks the shared identity sequence.
func (s *Service) WithSequence(seq Pinger) *Service {
	s.sequence = seq
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.engine.Ping(ctx); err != nil {
		checks[ComponentEngine] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[ComponentEngine] = CheckOK

	if s.indexes != nil {
		ok, err := s.indexes.Exists(ctx, s.index)
		checks[ComponentIndex] = result(err == nil && ok)
	}
	if s.sequence != nil {
		checks[ComponentSequence] = result(s.sequence.Ping(ctx) == nil)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
