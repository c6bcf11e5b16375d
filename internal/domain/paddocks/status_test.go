package paddocks

import (
	"testing"
	"time"
)

func TestStatus_OccupiedWinsOverRecentExit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	out := now.Add(-2 * time.Hour)
	lot := "lot-1"

	rep := NewStatusEngine(30).Evaluate(Paddock{LotID: &lot, RotatedOutAt: &out}, now)
	if rep.Status != StatusOccupied {
		t.Fatalf("expected occupied, got %s", rep.Status)
	}
	if rep.RecoveryEndsAt != nil || rep.RecoveryRemainingDays != 0 {
		t.Fatalf("occupied paddock should not report recovery: %+v", rep)
	}
}

func TestStatus_NeverGrazedIsAvailable(t *testing.T) {
	rep := NewStatusEngine(30).Evaluate(Paddock{}, time.Now())
	if rep.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", rep.Status)
	}
}

func TestStatus_RecoveryWindow(t *testing.T) {
	out := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	e := NewStatusEngine(30)

	cases := []struct {
		name      string
		now       time.Time
		want      Status
		remaining int
	}{
		{"right after exit", out, StatusRecovering, 30},
		{"half a day later rounds up", out.Add(12 * time.Hour), StatusRecovering, 30},
		{"ten days later", out.Add(10 * 24 * time.Hour), StatusRecovering, 20},
		{"one hour before the end", out.Add(30*24*time.Hour - time.Hour), StatusRecovering, 1},
		{"window elapsed", out.Add(30 * 24 * time.Hour), StatusAvailable, 0},
		{"long after", out.Add(90 * 24 * time.Hour), StatusAvailable, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := e.Evaluate(Paddock{RotatedOutAt: &out}, tc.now)
			if rep.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, rep.Status)
			}
			if rep.RecoveryRemainingDays != tc.remaining {
				t.Fatalf("expected %d remaining days, got %d", tc.remaining, rep.RecoveryRemainingDays)
			}
			if tc.want == StatusRecovering && !rep.RecoveryEndsAt.Equal(out.Add(30*24*time.Hour)) {
				t.Fatalf("unexpected recovery end: %v", rep.RecoveryEndsAt)
			}
		})
	}
}

func TestStatus_ExitInTheFutureIsCappedAtWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := now.Add(48 * time.Hour)

	rep := NewStatusEngine(7).Evaluate(Paddock{RotatedOutAt: &out}, now)
	if rep.Status != StatusRecovering || rep.RecoveryRemainingDays != 7 {
		t.Fatalf("expected recovering with 7 days, got %+v", rep)
	}
}

func TestStatus_ZeroWindowMeansImmediatelyAvailable(t *testing.T) {
	now := time.Now()
	out := now.Add(-time.Minute)
	if rep := NewStatusEngine(0).Evaluate(Paddock{RotatedOutAt: &out}, now); rep.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", rep.Status)
	}
}
