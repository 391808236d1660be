package proto

import (
	"errors"
)

// softCeiling bounds the accumulated, as-yet-unmatched byte buffer: if
// no pattern matches and the buffer exceeds this soft ceiling, the
// connection is failed with a protocol error.
const softCeiling = 8 * 1024

// ErrProtocol signals that the buffer exceeded softCeiling without a
// single pattern matching its prefix: the connection must be failed.
var ErrProtocol = errors.New("proto: no pattern matched and buffer exceeds soft ceiling")

// Match is one successfully tokenized frame: which Pattern recognised it
// and its capture groups (excluding the whole-match group 0).
type Match struct {
	Pattern  Pattern
	Captures []string
	Raw      []byte
}

// Codec accumulates inbound bytes and tokenizes them against Registry.
// It is not safe for concurrent use; a Codec belongs to exactly one
// connection's loop goroutine.
type Codec struct {
	buf      []byte
	registry []Pattern
}

// NewCodec returns a Codec using the package Registry. Tests may supply a
// narrower registry via NewCodecWithRegistry to exercise ordering rules
// in isolation.
func NewCodec() *Codec {
	return NewCodecWithRegistry(Registry)
}

// NewCodecWithRegistry returns a Codec using an explicit, already-ordered
// pattern set.
func NewCodecWithRegistry(registry []Pattern) *Codec {
	return &Codec{registry: registry}
}

// Feed appends data to the internal buffer and repeatedly tokenizes
// matched frames from its head until either no pattern matches at the
// head (returns matches, nil; the unmatched bytes stay buffered) or a
// protocol error is raised (returns the matches found so far,
// ErrProtocol).
//
// Patterns are tried in registration order; the
// first successful match consumes its bytes from the head of the buffer.
func (c *Codec) Feed(data []byte) ([]Match, error) {
	c.buf = append(c.buf, data...)

	var out []Match
	for {
		c.trimLeadingNewlines()
		m, n := c.matchOne()
		if n == 0 {
			if len(c.buf) > softCeiling {
				return out, ErrProtocol
			}
			return out, nil
		}
		out = append(out, m)
		c.buf = c.buf[n:]
	}
}

// matchOne tries every registered pattern, in order, anchored at the head
// of the buffer. It returns the zero Match and 0 if none matched.
func (c *Codec) matchOne() (Match, int) {
	for _, p := range c.registry {
		loc := p.Expr.FindSubmatchIndex(c.buf)
		if loc == nil {
			continue
		}
		n := loc[1] // end of whole match
		captures := make([]string, 0, p.Captures)
		for i := 1; i <= p.Captures; i++ {
			lo, hi := loc[2*i], loc[2*i+1]
			if lo < 0 {
				captures = append(captures, "")
				continue
			}
			captures = append(captures, string(c.buf[lo:hi]))
		}
		raw := make([]byte, n)
		copy(raw, c.buf[:n])
		return Match{Pattern: p, Captures: captures, Raw: raw}, n
	}
	return Match{}, 0
}

// trimLeadingNewlines discards any CR/LF bytes at the head of the
// buffer. Telnet peers conventionally terminate each line with "\r\n";
// since a Frame carries no terminator of its own,
// the terminator from the previous frame would otherwise sit in front
// of the next one and break every "^"-anchored pattern match.
func (c *Codec) trimLeadingNewlines() {
	i := 0
	for i < len(c.buf) && (c.buf[i] == '\r' || c.buf[i] == '\n') {
		i++
	}
	c.buf = c.buf[i:]
}

// Buffered returns the number of unmatched bytes currently held. Useful
// for tests asserting NeedMore-style behaviour without exposing the
// buffer itself.
func (c *Codec) Buffered() int {
	return len(c.buf)
}
