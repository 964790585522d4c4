package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockIndexChecker struct {
	exists bool
	err    error
}

func (m *mockIndexChecker) Exists(_ context.Context, _ string) (bool, error) { return m.exists, m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}).
		WithIndex(&mockIndexChecker{exists: true}, "inventory-items").
		WithSequence(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentEngine, ComponentIndex, ComponentSequence} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
}

func TestCheck_EngineDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}).WithSequence(&mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentEngine] != CheckError {
		t.Errorf("expected engine %q, got %q", CheckError, r.Checks[ComponentEngine])
	}
}

func TestCheck_Degraded(t *testing.T) {
	tests := []struct {
		name      string
		svc       *Service
		component string
	}{
		{
			"index missing",
			New(&mockPinger{}).WithIndex(&mockIndexChecker{}, "inventory-items"),
			ComponentIndex,
		},
		{
			"index check error",
			New(&mockPinger{}).WithIndex(&mockIndexChecker{err: errors.New("timeout")}, "inventory-items"),
			ComponentIndex,
		},
		{
			"sequence down",
			New(&mockPinger{}).WithSequence(&mockPinger{err: errors.New("NOAUTH")}),
			ComponentSequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.svc.Check(context.Background())
			if r.Status != Degraded {
				t.Errorf("expected %q, got %q", Degraded, r.Status)
			}
			if r.Checks[tt.component] != CheckError {
				t.Errorf("expected %s %q, got %q", tt.component, CheckError, r.Checks[tt.component])
			}
		})
	}
}

func TestCheck_OptionalComponentsOmitted(t *testing.T) {
	r := New(&mockPinger{}).Check(context.Background())
	if len(r.Checks) != 1 {
		t.Errorf("expected only the engine check, got %v", r.Checks)
	}
}
