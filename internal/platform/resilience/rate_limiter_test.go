package resilience

import (
	"testing"
	"time"
)

func TestClientLimiter_ExactlyLimitAdmissionsPerWindow(t *testing.T) {
	l := NewClientLimiter(time.Minute, 5)

	for i := 0; i < 5; i++ {
		if !l.Admit("client-a") {
			t.Fatalf("admission %d should succeed", i+1)
		}
	}

	if l.Admit("client-a") {
		t.Error("admission limit+1 should be rejected")
	}
	if l.Admit("client-a") {
		t.Error("further admissions should keep being rejected")
	}
}

func TestClientLimiter_WindowElapseResumesAdmissions(t *testing.T) {
	l := NewClientLimiter(50*time.Millisecond, 2)

	if !l.Admit("client-a") || !l.Admit("client-a") {
		t.Fatal("first two admissions should succeed")
	}
	if l.Admit("client-a") {
		t.Fatal("third admission should be rejected")
	}

	time.Sleep(60 * time.Millisecond)

	if !l.Admit("client-a") {
		t.Error("admission should resume after the window elapses")
	}
}

func TestClientLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewClientLimiter(time.Minute, 1)

	if !l.Admit("client-a") {
		t.Fatal("client-a first admission should succeed")
	}
	if l.Admit("client-a") {
		t.Error("client-a second admission should be rejected")
	}

	if !l.Admit("client-b") {
		t.Error("client-b must not be affected by client-a's window")
	}
}

func TestClientLimiter_Remaining(t *testing.T) {
	l := NewClientLimiter(time.Minute, 3)

	if got := l.Remaining("client-a"); got != 3 {
		t.Errorf("untracked client should have full limit, got %d", got)
	}

	l.Admit("client-a")
	l.Admit("client-a")

	if got := l.Remaining("client-a"); got != 1 {
		t.Errorf("expected 1 remaining, got %d", got)
	}

	l.Admit("client-a")
	l.Admit("client-a") // rejected, but still counted

	if got := l.Remaining("client-a"); got != 0 {
		t.Errorf("remaining must not go negative, got %d", got)
	}
}

func TestClientLimiter_ResetClearsClientWindow(t *testing.T) {
	l := NewClientLimiter(time.Minute, 1)

	l.Admit("client-a")
	if l.Admit("client-a") {
		t.Fatal("second admission should be rejected")
	}

	l.Reset("client-a")

	if !l.Admit("client-a") {
		t.Error("admission should succeed after reset")
	}
}

func TestClientLimiter_DefaultsApplied(t *testing.T) {
	l := NewClientLimiter(0, 0)

	window, limit, tracked := l.Stats()
	if window <= 0 || limit <= 0 {
		t.Errorf("expected positive defaults, got window=%v limit=%d", window, limit)
	}
	if tracked != 0 {
		t.Errorf("expected no tracked clients, got %d", tracked)
	}
}
