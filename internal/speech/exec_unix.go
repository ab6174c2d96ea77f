//go:build !windows

package speech

import "syscall"

// Pause stops the in-progress synthesizer process with SIGSTOP.
func (e *ExecEngine) Pause() error {
	return e.signal(syscall.SIGSTOP)
}

// Resume continues a paused synthesizer process with SIGCONT.
func (e *ExecEngine) Resume() error {
	return e.signal(syscall.SIGCONT)
}

func (e *ExecEngine) signal(sig syscall.Signal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil || e.current.Process == nil {
		return nil
	}
	return e.current.Process.Signal(sig)
}
