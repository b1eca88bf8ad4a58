package model

import (
	"testing"
	"time"
)

func TestTrialWindow(t *testing.T) {
	fresh := &Temple{CreatedAt: time.Now().Add(-24 * time.Hour)}
	if fresh.TrialExpired(14) {
		t.Error("one-day-old temple must still be in trial")
	}
	if got := fresh.TrialDaysLeft(14); got != 13 {
		t.Errorf("TrialDaysLeft = %d, want 13", got)
	}

	stale := &Temple{CreatedAt: time.Now().Add(-15 * 24 * time.Hour)}
	if !stale.TrialExpired(14) {
		t.Error("fifteen-day-old temple must be past trial")
	}
	if got := stale.TrialDaysLeft(14); got != 0 {
		t.Errorf("TrialDaysLeft floors at zero, got %d", got)
	}
}

func TestTempleIsActive(t *testing.T) {
	if (&Temple{Status: StatusInactive}).IsActive() {
		t.Error("inactive temple reported active")
	}
	if !(&Temple{Status: StatusActive}).IsActive() {
		t.Error("active temple reported inactive")
	}
}
