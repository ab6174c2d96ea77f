package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/recognizer"
	"github.com/ayusman/signspeak/internal/speech"
)

// flickerFrames returns alternating black and white frames so every frame
// passes the activity gate.
func flickerFrames(t *testing.T) []*gocv.Mat {
	t.Helper()

	black := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	t.Cleanup(func() {
		black.Close()
		white.Close()
	})

	return []*gocv.Mat{&black, &white}
}

func TestLoop_SlowCycleSkipsTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	client := recognizer.NewMockClient()
	client.SetResult(&recognizer.Result{HandDetected: false})
	// One cycle outlasts two poll intervals.
	client.SetDetectDelay(120 * time.Millisecond)

	a := New(Config{
		Camera:       capture.NewMockCamera(flickerFrames(t), true),
		Recognizer:   client,
		PollInterval: 50 * time.Millisecond,
	})
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	waitFor(t, time.Second, func() bool { return client.DetectCalls() >= 1 })
	waitFor(t, time.Second, func() bool { return a.Snapshot().SkippedTicks >= 1 })
}

func TestLoop_DisabledDoesNotPoll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	client := recognizer.NewMockClient()

	a := New(Config{
		Camera:       capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Recognizer:   client,
		PollInterval: 10 * time.Millisecond,
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	time.Sleep(100 * time.Millisecond)

	if calls := client.DetectCalls(); calls != 0 {
		t.Errorf("detect calls = %d, want 0 while disabled", calls)
	}
}

func TestLoop_FullCycleAcceptsSign(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	client := recognizer.NewMockClient()
	client.SetResult(&recognizer.Result{HandDetected: true, Sign: "HELLO", Confidence: 0.9})

	engine := speech.NewMockEngine()

	a := New(Config{
		Camera:       capture.NewMockCamera(flickerFrames(t), true),
		Recognizer:   client,
		Speech:       readyScheduler(t, engine),
		PollInterval: 10 * time.Millisecond,
	})
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	waitFor(t, time.Second, func() bool { return a.Snapshot().Sign == "HELLO" })

	snap := a.Snapshot()
	if snap.SessionText != "HELLO" {
		t.Errorf("session text = %q, want %q", snap.SessionText, "HELLO")
	}
	if !snap.Healthy {
		t.Error("service should be healthy after a successful cycle")
	}
}

func TestLoop_DetectionErrorIsRecoverable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	client := recognizer.NewMockClient()
	client.SetDetectError(errTest)

	a := New(Config{
		Camera:       capture.NewMockCamera(flickerFrames(t), true),
		Recognizer:   client,
		PollInterval: 10 * time.Millisecond,
	})
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	waitFor(t, time.Second, func() bool { return a.Snapshot().LastError != "" })

	snap := a.Snapshot()
	if snap.Healthy {
		t.Error("service should be marked unhealthy after a failed request")
	}

	// Recovery: the next successful cycle clears the error.
	client.SetDetectError(nil)
	client.SetResult(&recognizer.Result{HandDetected: false})

	waitFor(t, time.Second, func() bool {
		s := a.Snapshot()
		return s.Healthy && s.LastError == ""
	})
}
