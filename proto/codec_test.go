package proto

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodecVolumeScenario(t *testing.T) {
	c := NewCodec()
	matches, err := c.Feed([]byte("(VO3-20)"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Pattern.ID != PatternVolume {
		t.Fatalf("matched pattern %v, want PatternVolume", m.Pattern.ID)
	}
	if m.Captures[0] != "3" || m.Captures[1] != "-20" {
		t.Fatalf("captures = %v, want [3 -20]", m.Captures)
	}
	if c.Buffered() != 0 {
		t.Fatalf("buffered = %d, want 0", c.Buffered())
	}
}

// TestMuteResponseQuirk documents the inverted mute response encoding:
// the bare "M" token reports OFF (unmuted) and "MU" reports ON (muted),
// the opposite of the request-side meaning of those same tokens. This is
// preserved, not "fixed" — see DESIGN.md.
func TestMuteResponseQuirk(t *testing.T) {
	c := NewCodec()
	matches, err := c.Feed([]byte("(VMO1)"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Pattern.ID != PatternMute {
		t.Fatalf("got %+v, want one PatternMute match", matches)
	}
	if matches[0].Captures[0] != "M" {
		t.Fatalf("op capture = %q, want %q (bare M = unmuted)", matches[0].Captures[0], "M")
	}
	if matches[0].Captures[1] != "1" {
		t.Fatalf("id capture = %q, want 1", matches[0].Captures[1])
	}
}

func TestCodecNeedsMore(t *testing.T) {
	c := NewCodec()
	matches, err := c.Feed([]byte("(VO3-20"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("got %d premature matches", len(matches))
	}
	if c.Buffered() == 0 {
		t.Fatal("expected buffered bytes while awaiting the rest of the frame")
	}

	matches, err = c.Feed([]byte(")"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches after completing the frame, want 1", len(matches))
	}
}

func TestCodecFrameThenGarbage(t *testing.T) {
	// Universal invariant: a valid frame
	// followed by garbage is matched exactly once and its bytes are
	// removed from the buffer; the garbage remains buffered, not
	// matched, and does not by itself trigger an error while under the
	// soft ceiling.
	c := NewCodec()
	matches, err := c.Feed([]byte("(VO3-20)garbage"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if string(c.buf) != "garbage" {
		t.Fatalf("remaining buffer = %q, want %q", c.buf, "garbage")
	}
}

func TestCodecProtocolErrorOnOverflow(t *testing.T) {
	c := NewCodec()
	junk := bytes.Repeat([]byte("z"), softCeiling+1)
	_, err := c.Feed(junk)
	if err != ErrProtocol {
		t.Fatalf("err = %v, want ErrProtocol", err)
	}
}

func TestCodecShortGarbageDoesNotError(t *testing.T) {
	c := NewCodec()
	_, err := c.Feed([]byte("(notaframe"))
	if err != nil {
		t.Fatalf("short unmatched buffer should not error, got %v", err)
	}
}

// TestRoundTrip checks that the frames built for five request-shaped
// properties, once wrapped in the inbound parentheses, are each
// recognised by the codec as exactly one frame.
func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		build func() (Frame, error)
	}{
		{"volume", func() (Frame, error) { return SetScalar(PropVolume, KindZone, 5, -30) }},
		{"balance", func() (Frame, error) { return SetScalar(PropBalance, KindZone, 5, 10) }},
		{"name", func() (Frame, error) { return SetName(KindZone, 5, "Kitchen") }},
		{"eqband", func() (Frame, error) { return EqualizerBandSet(KindEqualizerPreset, 1, 2, 3) }},
		{"crossover", func() (Frame, error) { return Crossover(KindZone, 5, false, 120) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			frame, err := c.build()
			if err != nil {
				t.Fatal(err)
			}
			inbound := "(" + frame.String() + ")"
			codec := NewCodec()
			matches, err := codec.Feed([]byte(inbound))
			if err != nil {
				t.Fatal(err)
			}
			if len(matches) != 1 {
				t.Fatalf("got %d matches for %q", len(matches), inbound)
			}
		})
	}
}

func TestIdentifierRoundTrip(t *testing.T) {
	// "parse(render(id)) == id for every identifier in [1, MaxForKind]."
	for id := Identifier(1); id <= Max[KindZone]; id++ {
		f, err := QueryObject(KindZone, id)
		if err != nil {
			t.Fatal(err)
		}
		rendered := strings.TrimPrefix(f.String(), "QO")
		if rendered != id.String() {
			t.Fatalf("id %d rendered as %q", id, rendered)
		}
	}
}
