package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"
)

// ExecEngine speaks through an external synthesizer command such as
// espeak-ng. Each utterance runs the command once with the text as the
// final argument; Cancel kills the process, Pause and Resume use job
// control signals.
type ExecEngine struct {
	cmd       []string
	voicesCmd []string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewExecEngine creates an ExecEngine from a command line string.
// voicesCommand is optional; when empty the engine reports no voices and
// the scheduler falls back to the synthesizer's default voice.
func NewExecEngine(command, voicesCommand string) (*ExecEngine, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse speech command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("speech command empty")
	}

	var voicesArgs []string
	if voicesCommand != "" {
		voicesArgs, err = parser.Parse(voicesCommand)
		if err != nil {
			return nil, fmt.Errorf("parse voices command: %w", err)
		}
	}

	return &ExecEngine{cmd: args, voicesCmd: voicesArgs}, nil
}

// Voices runs the voices command and parses its output in the espeak
// table format: priority, language, age/gender, voice name, file.
func (e *ExecEngine) Voices() ([]Voice, error) {
	if len(e.voicesCmd) == 0 {
		return nil, nil
	}

	out, err := exec.Command(e.voicesCmd[0], e.voicesCmd[1:]...).Output()
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	return parseVoiceTable(string(out)), nil
}

// parseVoiceTable parses espeak-style voice listings. The first line is a
// header; each following line has at least five whitespace-separated
// columns with the language tag second and the voice name fourth.
func parseVoiceTable(out string) []Voice {
	var voices []Voice

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, Voice{
			ID:           fields[4],
			Name:         fields[3],
			Language:     fields[1],
			LocalService: true,
		})
	}

	return voices
}

// Speak runs the synthesizer command and blocks until it exits.
func (e *ExecEngine) Speak(ctx context.Context, u Utterance) error {
	args := append([]string{}, e.cmd[1:]...)
	if u.Voice != nil {
		args = append(args, "-v", u.Voice.ID)
	}
	if u.Rate > 0 && u.Rate != 1.0 {
		// espeak speaks at 175 words per minute by default.
		args = append(args, "-s", strconv.Itoa(int(175*u.Rate)))
	}
	if u.Volume > 0 && u.Volume != 1.0 {
		args = append(args, "-a", strconv.Itoa(int(100*u.Volume)))
	}
	args = append(args, u.Text)

	cmd := exec.CommandContext(ctx, e.cmd[0], args...)

	e.mu.Lock()
	e.current = cmd
	e.mu.Unlock()

	err := cmd.Run()

	e.mu.Lock()
	if e.current == cmd {
		e.current = nil
	}
	e.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		// Killed by Cancel.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == -1 {
			return ErrCancelled
		}
		return fmt.Errorf("synthesizer: %w", err)
	}
	return nil
}

// Cancel kills the in-progress synthesizer process, if any.
func (e *ExecEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.current.Process != nil {
		e.current.Process.Kill()
	}
}
