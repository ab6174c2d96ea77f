package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/avatar"
	"github.com/ayusman/signspeak/internal/recognizer"
	"github.com/ayusman/signspeak/internal/server"
	"github.com/ayusman/signspeak/internal/server/api"
	"github.com/ayusman/signspeak/internal/speech"
	"github.com/ayusman/signspeak/internal/store"
	"github.com/ayusman/signspeak/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("SignSpeak - Sign Language to Speech")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".signspeak")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "signspeak.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Recognition service client
	recognizerCfg := recognizer.DefaultConfig()
	if url := os.Getenv("SIGNSPEAK_API_URL"); url != "" {
		recognizerCfg.BaseURL = url
	}
	client := recognizer.NewHTTPClient(recognizerCfg)

	// Speech scheduler around the configured synthesizer command
	scheduler := newScheduler(st)
	if err := scheduler.Initialize(); err != nil {
		log.Printf("Speech unavailable: %v", err)
	}
	loadPhraseOverrides(st, scheduler.Formatter())

	transitioner := avatar.NewTransitioner(avatar.DefaultConfig())

	trayUI := tray.New()

	application := app.New(app.Config{
		Store:            st,
		Recognizer:       client,
		Speech:           scheduler,
		Avatar:           transitioner,
		PollInterval:     intervalSetting(st, api.SettingPollIntervalMS, 0),
		AcceptThreshold:  floatSetting(st, api.SettingAcceptThreshold, 0),
		DisplayThreshold: floatSetting(st, api.SettingDisplayThreshold, 0),
		OnSign: func(sign string, _ float64) {
			trayUI.SetLastSign(sign)
		},
	})

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start detection: %v", err)
	}
	application.SetEnabled(true)

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	trayUI.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	trayUI.OnMute(func(muted bool) {
		scheduler.SetEnabled(!muted)
		if muted {
			scheduler.StopSpeaking()
			scheduler.ClearQueue()
		}
	})
	trayUI.OnSettings(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	trayUI.OnQuit(func() {
		application.Stop()
		transitioner.Stop()
	})

	// Blocks until quit; the tray owns the main thread.
	trayUI.Run()
}

// newScheduler builds the speech scheduler from the configured synthesizer
// command. A missing or broken command leaves speech disabled rather than
// failing startup.
func newScheduler(st *store.Store) *speech.Scheduler {
	command := os.Getenv("SIGNSPEAK_TTS_CMD")
	if command == "" {
		command = st.Settings().GetOrDefault("tts_command", "espeak-ng")
	}
	voicesCommand := os.Getenv("SIGNSPEAK_TTS_VOICES_CMD")
	if voicesCommand == "" {
		voicesCommand = st.Settings().GetOrDefault("tts_voices_command", command+" --voices")
	}

	var engine speech.Engine
	if execEngine, err := speech.NewExecEngine(command, voicesCommand); err != nil {
		log.Printf("Invalid speech command %q: %v", command, err)
	} else {
		engine = execEngine
	}

	return speech.NewScheduler(engine, speech.DefaultConfig())
}

// floatSetting reads a stored float setting. Unset or unparseable values
// yield the fallback, letting the package defaults apply.
func floatSetting(st *store.Store, key string, fallback float64) float64 {
	raw, err := st.Settings().Get(key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Ignoring invalid setting %s=%q", key, raw)
		return fallback
	}
	return v
}

// intervalSetting reads a stored millisecond setting as a duration.
func intervalSetting(st *store.Store, key string, fallback time.Duration) time.Duration {
	raw, err := st.Settings().Get(key)
	if err != nil {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		log.Printf("Ignoring invalid setting %s=%q", key, raw)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// loadPhraseOverrides applies stored phrase overrides to the live formatter.
func loadPhraseOverrides(st *store.Store, formatter *speech.Formatter) {
	phrases, err := st.Phrases().List()
	if err != nil {
		log.Printf("Failed to load phrase overrides: %v", err)
		return
	}
	for _, p := range phrases {
		formatter.Override(p.Sign, p.Phrase)
	}
}

// openBrowser opens the dashboard in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.signspeak/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".signspeak", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
