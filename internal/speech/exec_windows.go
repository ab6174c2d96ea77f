//go:build windows

package speech

// Windows has no job control signals, so a playing utterance cannot be
// suspended mid-stream. Pause and resume are no-ops there.

// Pause is a no-op on Windows.
func (e *ExecEngine) Pause() error {
	return nil
}

// Resume is a no-op on Windows.
func (e *ExecEngine) Resume() error {
	return nil
}
