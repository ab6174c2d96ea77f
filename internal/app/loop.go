package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/speech"
)

// runLoop drives detection cycles off a ticker. A cycle can outlast the
// poll interval (slow network, slow service), so cycles run on their own
// goroutine and a tick that arrives while one is outstanding is skipped,
// never queued.
func (a *App) runLoop() {
	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			a.mu.Lock()
			if a.inFlight {
				a.skippedTicks++
				a.mu.Unlock()
				continue
			}
			a.inFlight = true
			ctx := a.ctx
			a.mu.Unlock()

			go func() {
				a.runCycle(ctx)

				a.mu.Lock()
				a.inFlight = false
				a.mu.Unlock()
			}()
		}
	}
}

// runCycle performs one detection cycle: read a frame, encode it, send it
// to the recognition service, and fold the outcome into the loop state.
// Every failure is recoverable; the next tick simply tries again.
func (a *App) runCycle(ctx context.Context) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.recordError(ctx, "camera: "+err.Error())
		return
	}

	upload, _ := a.gate.ShouldUpload(frame)
	if !upload {
		// Static scene; nothing new to recognize.
		frame.Close()
		return
	}

	data, err := capture.EncodeJPEG(frame, a.config.JPEGQuality)
	frame.Close()
	if err != nil {
		a.recordError(ctx, "encode: "+err.Error())
		return
	}

	result, err := a.config.Recognizer.DetectSign(ctx, data)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Loop is shutting down
			return
		}
		a.mu.Lock()
		if ctx.Err() == nil {
			a.healthy = false
			a.lastError = err.Error()
		}
		a.mu.Unlock()
		log.Printf("Detection request failed: %v", err)
		return
	}

	a.fold(ctx, result.HandDetected, result.Sign, result.Confidence)
}

// fold applies one recognition outcome to the loop state. Outcomes from
// a cycle that outlived Stop are discarded so a stopped loop never shows
// a live sign.
func (a *App) fold(ctx context.Context, handDetected bool, sign string, confidence float64) {
	a.mu.Lock()
	if ctx.Err() != nil {
		a.mu.Unlock()
		return
	}
	a.healthy = true
	a.lastError = ""

	switch {
	case handDetected && sign != "" && confidence >= a.acceptThreshold:
		a.handDetected = true
		a.currentSign = sign
		a.confidence = confidence
	case handDetected:
		// Hand visible but nothing confident enough to show
		a.handDetected = true
		a.currentSign = ""
		a.confidence = confidence
	default:
		a.handDetected = false
		a.currentSign = ""
		a.confidence = 0
	}

	accepted := a.handDetected && a.currentSign != ""
	onSign := a.config.OnSign
	a.mu.Unlock()

	if !accepted || ctx.Err() != nil {
		return
	}

	if a.session.Observe(sign, confidence) {
		if a.config.Speech != nil {
			a.config.Speech.Speak(sign, speech.SpeakOptions{})
		}
		if a.config.Avatar != nil {
			a.config.Avatar.Show(sign)
		}
		if onSign != nil {
			onSign(sign, confidence)
		}
	}
}

// recordError stores a recoverable cycle error for the state snapshot.
func (a *App) recordError(ctx context.Context, msg string) {
	a.mu.Lock()
	if ctx.Err() == nil {
		a.lastError = msg
	}
	a.mu.Unlock()
	log.Printf("Detection cycle error: %s", msg)
}
