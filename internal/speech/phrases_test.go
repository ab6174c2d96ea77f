package speech

import "testing"

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known sign", in: "THANKS", want: "Thank you"},
		{name: "lowercase sign", in: "hello", want: "Hello"},
		{name: "padded sign", in: "  YES ", want: "Yes"},
		{name: "unknown token passes through", in: "XYZZY", want: "XYZZY"},
		{name: "free text passes through", in: "good morning", want: "good morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(tt.in); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatter_Override(t *testing.T) {
	f := NewFormatter()

	f.Override("thanks", "Thanks a lot")
	if got := f.Format("THANKS"); got != "Thanks a lot" {
		t.Errorf("Format after override = %q, want %q", got, "Thanks a lot")
	}

	// New signs can be added.
	f.Override("WATER", "Water please")
	if got := f.Format("water"); got != "Water please" {
		t.Errorf("Format new sign = %q, want %q", got, "Water please")
	}

	// Empty values are ignored.
	f.Override("", "something")
	f.Override("THANKS", "")
	if got := f.Format("THANKS"); got != "Thanks a lot" {
		t.Errorf("empty override should be ignored, got %q", got)
	}
}

func TestFormatter_Signs(t *testing.T) {
	f := NewFormatter()

	signs := f.Signs()
	if len(signs) != len(defaultPhrases) {
		t.Fatalf("expected %d signs, got %d", len(defaultPhrases), len(signs))
	}

	// Sorted order.
	for i := 1; i < len(signs); i++ {
		if signs[i] < signs[i-1] {
			t.Fatal("signs should be sorted")
		}
	}
}
