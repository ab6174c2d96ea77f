package speech

import "testing"

func TestNewExecEngine_ParsesQuotedCommand(t *testing.T) {
	engine, err := NewExecEngine(`say -v "Samantha (Enhanced)"`, "")
	if err != nil {
		t.Fatalf("NewExecEngine() error = %v", err)
	}

	want := []string{"say", "-v", "Samantha (Enhanced)"}
	if len(engine.cmd) != len(want) {
		t.Fatalf("cmd = %v, want %v", engine.cmd, want)
	}
	for i := range want {
		if engine.cmd[i] != want[i] {
			t.Errorf("cmd[%d] = %q, want %q", i, engine.cmd[i], want[i])
		}
	}
}

func TestNewExecEngine_EmptyCommand(t *testing.T) {
	if _, err := NewExecEngine("", ""); err == nil {
		t.Error("expected an error for an empty command")
	}
	if _, err := NewExecEngine("   ", ""); err == nil {
		t.Error("expected an error for a blank command")
	}
}

func TestExecEngine_NoVoicesCommand(t *testing.T) {
	engine, err := NewExecEngine("espeak-ng", "")
	if err != nil {
		t.Fatalf("NewExecEngine() error = %v", err)
	}

	voices, err := engine.Voices()
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if voices != nil {
		t.Errorf("voices = %v, want none without a voices command", voices)
	}
}

func TestParseVoiceTableExec(t *testing.T) {
	out := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 2  en-US          M          english-us         en-us
 5  en-GB          F          english            en
 3  de             M          german             de
bad line that is not a voice`

	voices := parseVoiceTable(out)
	if len(voices) != 3 {
		t.Fatalf("parsed %d voices, want 3", len(voices))
	}

	first := voices[0]
	if first.Name != "english-us" || first.Language != "en-US" || first.ID != "en-us" {
		t.Errorf("first voice = %+v, want english-us/en-US/en-us", first)
	}
	if !first.LocalService {
		t.Error("parsed voices should be marked local")
	}
}
