package herr

import "testing"

func TestFatal(t *testing.T) {
	cases := []struct {
		code  Code
		fatal bool
	}{
		{ErrConnReset, false},
		{ErrTimedOut, true},
		{ErrConnRefused, true},
		{ValueAlreadySet, false},
	}
	for _, c := range cases {
		if got := c.code.Fatal(); got != c.fatal {
			t.Errorf("%v.Fatal() = %v, want %v", c.code, got, c.fatal)
		}
	}
}

func TestIsStatus(t *testing.T) {
	if !ValueAlreadySet.IsStatus() {
		t.Error("ValueAlreadySet should be a status, not an error")
	}
	if ErrTimedOut.IsStatus() {
		t.Error("ErrTimedOut should not be a status")
	}
}

func TestErrorStrings(t *testing.T) {
	if ErrTimedOut.Error() == "" {
		t.Fatal("empty error string")
	}
	unknown := Code(999)
	if unknown.Error() == "" {
		t.Fatal("empty error string for unknown code")
	}
}
