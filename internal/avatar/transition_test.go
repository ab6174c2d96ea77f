package avatar

import (
	"sync"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{FadeOut: 10 * time.Millisecond, FadeIn: 10 * time.Millisecond}
}

// waitForPhase polls until the transitioner reaches the phase or times out.
func waitForPhase(t *testing.T, tr *Transitioner, want Phase, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, phase := tr.Current(); phase == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	_, phase := tr.Current()
	t.Fatalf("phase = %s, want %s", phase, want)
}

func TestTransitioner_FullSequence(t *testing.T) {
	tr := NewTransitioner(fastConfig())

	var mu sync.Mutex
	var phases []Phase
	tr.OnPhase(func(p Phase, _ string) {
		mu.Lock()
		phases = append(phases, p)
		mu.Unlock()
	})

	tr.Show("HELLO")
	waitForPhase(t, tr, PhaseIdle, time.Second)

	sign, _ := tr.Current()
	if sign != "HELLO" {
		t.Errorf("current sign = %q, want %q", sign, "HELLO")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []Phase{PhaseFadingOut, PhaseFadingIn, PhaseIdle}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %s, want %s", i, phases[i], want[i])
		}
	}
}

func TestTransitioner_SupersededTransition(t *testing.T) {
	tr := NewTransitioner(Config{FadeOut: 50 * time.Millisecond, FadeIn: 10 * time.Millisecond})

	tr.Show("HELLO")
	// Supersede mid fade-out; the first transition's timer must not fire.
	time.Sleep(10 * time.Millisecond)
	tr.Show("THANKS")

	waitForPhase(t, tr, PhaseIdle, time.Second)

	sign, _ := tr.Current()
	if sign != "THANKS" {
		t.Errorf("current sign = %q, want %q (superseding sign wins)", sign, "THANKS")
	}
}

func TestTransitioner_ShowSameSignIdleIsNoop(t *testing.T) {
	tr := NewTransitioner(fastConfig())

	tr.Show("HELLO")
	waitForPhase(t, tr, PhaseIdle, time.Second)

	fired := false
	tr.OnPhase(func(Phase, string) { fired = true })

	tr.Show("HELLO")
	time.Sleep(30 * time.Millisecond)

	if fired {
		t.Error("re-showing the current sign while idle should not transition")
	}
}

func TestTransitioner_Stop(t *testing.T) {
	tr := NewTransitioner(Config{FadeOut: 50 * time.Millisecond, FadeIn: 50 * time.Millisecond})

	tr.Show("HELLO")
	tr.Stop()

	sign, phase := tr.Current()
	if phase != PhaseIdle {
		t.Errorf("phase = %s, want idle after Stop", phase)
	}
	if sign != "" {
		t.Errorf("sign = %q, want empty (fade-out never completed)", sign)
	}

	// The cancelled timer must not advance the state later.
	time.Sleep(120 * time.Millisecond)
	if _, phase := tr.Current(); phase != PhaseIdle {
		t.Errorf("phase = %s, want idle (stale timer fired)", phase)
	}
}
