package session

import (
	"testing"
	"time"
)

// testConfig disables the acceptance gap so tests control timing themselves.
func testConfig() Config {
	return Config{DisplayThreshold: 0.7, MinGap: 0}
}

func TestSession_AppendsAcceptedSign(t *testing.T) {
	s := New(testConfig())

	if !s.Observe("HELLO", 0.9) {
		t.Fatal("expected HELLO to be accepted")
	}
	if got := s.Text(); got != "HELLO" {
		t.Errorf("Text() = %q, want %q", got, "HELLO")
	}
}

func TestSession_IdenticalResultNotAppendedTwice(t *testing.T) {
	s := New(testConfig())

	if !s.Observe("HELLO", 0.9) {
		t.Fatal("expected first HELLO to be accepted")
	}
	if s.Observe("HELLO", 0.9) {
		t.Error("identical follow-up should not be accepted")
	}
	if got := s.Text(); got != "HELLO" {
		t.Errorf("Text() = %q, want %q", got, "HELLO")
	}
}

func TestSession_BelowThresholdRejected(t *testing.T) {
	s := New(testConfig())

	if s.Observe("HELLO", 0.4) {
		t.Error("confidence below display threshold should be rejected")
	}
	if s.Observe("HELLO", 0.7) {
		t.Error("confidence equal to threshold should be rejected")
	}
	if got := s.Text(); got != "" {
		t.Errorf("Text() = %q, want empty", got)
	}
}

func TestSession_EmptySignRejected(t *testing.T) {
	s := New(testConfig())

	if s.Observe("", 0.95) {
		t.Error("empty sign should be rejected")
	}
	if s.Observe("   ", 0.95) {
		t.Error("whitespace sign should be rejected")
	}
}

func TestSession_JoinsWithSpaces(t *testing.T) {
	s := New(testConfig())

	s.Observe("HELLO", 0.9)
	s.Observe("THANKS", 0.85)
	s.Observe("YES", 0.8)

	if got := s.Text(); got != "HELLO THANKS YES" {
		t.Errorf("Text() = %q, want %q", got, "HELLO THANKS YES")
	}

	signs := s.Signs()
	if len(signs) != 3 {
		t.Fatalf("expected 3 signs, got %d", len(signs))
	}
}

func TestSession_MinGapEnforced(t *testing.T) {
	s := New(Config{DisplayThreshold: 0.7, MinGap: 50 * time.Millisecond})

	if !s.Observe("HELLO", 0.9) {
		t.Fatal("first sign should be accepted")
	}
	// Different sign, but too soon.
	if s.Observe("THANKS", 0.9) {
		t.Error("sign within the minimum gap should be rejected")
	}

	time.Sleep(60 * time.Millisecond)

	if !s.Observe("THANKS", 0.9) {
		t.Error("sign after the minimum gap should be accepted")
	}
}

func TestSession_Clear(t *testing.T) {
	s := New(testConfig())
	firstID := s.ID()

	s.Observe("HELLO", 0.9)
	s.Observe("THANKS", 0.9)

	finished := s.Clear()
	if finished == nil {
		t.Fatal("expected a transcript from a non-empty session")
	}
	if finished.Text != "HELLO THANKS" {
		t.Errorf("transcript text = %q, want %q", finished.Text, "HELLO THANKS")
	}
	if finished.SignCount != 2 {
		t.Errorf("transcript sign count = %d, want 2", finished.SignCount)
	}
	if finished.ID != firstID {
		t.Errorf("transcript ID = %q, want %q", finished.ID, firstID)
	}

	if got := s.Text(); got != "" {
		t.Errorf("Text() after clear = %q, want empty", got)
	}
	if s.ID() == firstID {
		t.Error("session ID should change after clear")
	}

	// A sign identical to the pre-clear last sign is accepted again.
	if !s.Observe("THANKS", 0.9) {
		t.Error("clear should reset the last accepted sign")
	}
}

func TestSession_ClearEmpty(t *testing.T) {
	s := New(testConfig())

	if finished := s.Clear(); finished != nil {
		t.Errorf("expected nil transcript for an empty session, got %+v", finished)
	}
}

func TestSession_SetDisplayThreshold(t *testing.T) {
	s := New(testConfig())

	s.SetDisplayThreshold(0.9)
	if got := s.DisplayThreshold(); got != 0.9 {
		t.Errorf("DisplayThreshold() = %f, want 0.9", got)
	}

	if s.Observe("HELLO", 0.85) {
		t.Error("confidence below the raised threshold should be rejected")
	}
	if !s.Observe("HELLO", 0.95) {
		t.Error("confidence above the raised threshold should be accepted")
	}
}

func TestSession_Stats(t *testing.T) {
	s := New(testConfig())

	s.Observe("HELLO", 0.9)
	s.Observe("HELLO", 0.9) // duplicate, counted as observed only
	s.Observe("", 0.1)

	stats := s.Stats()
	if stats.Observed != 3 {
		t.Errorf("observed = %d, want 3", stats.Observed)
	}
	if stats.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", stats.Accepted)
	}
}
