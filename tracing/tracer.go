// Package tracing renders register file commits as a textual trace for
// comparison against the RTL simulation log.
package tracing

import (
	"encoding/hex"
	"hash"
	"io"

	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/crypto/sha3"

	"github.com/sarchlab/pqsim/pqspr"
)

// Tracer is a hook that writes one line per committed register and keeps a
// SHA3-256 digest of every line it produced.
type Tracer struct {
	w      io.Writer
	rtl    bool
	digest hash.Hash
	lines  uint64
	err    error
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithRTLFormat renders lines the way the RTL trace log does.
func WithRTLFormat() TracerOption {
	return func(t *Tracer) {
		t.rtl = true
	}
}

// NewTracer creates a Tracer writing to w. A nil writer only digests.
func NewTracer(w io.Writer, opts ...TracerOption) *Tracer {
	if w == nil {
		w = io.Discard
	}

	t := &Tracer{
		w:      w,
		digest: sha3.New256(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Func implements sim.Hook.
func (t *Tracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != pqspr.HookPosCommit {
		return
	}

	entry, ok := ctx.Item.(pqspr.TraceEntry)
	if !ok {
		return
	}

	line := entry.String()
	if t.rtl {
		line = entry.RTLString()
	}
	line += "\n"

	t.digest.Write([]byte(line))
	t.lines++

	if t.err == nil {
		_, t.err = io.WriteString(t.w, line)
	}
}

// Lines returns the number of lines traced so far.
func (t *Tracer) Lines() uint64 {
	return t.lines
}

// Digest returns the hex SHA3-256 digest of the trace so far.
func (t *Tracer) Digest() string {
	return hex.EncodeToString(t.digest.Sum(nil))
}

// Err returns the first write error, if any.
func (t *Tracer) Err() error {
	return t.err
}

// DigestOf returns the hex SHA3-256 digest of a whole trace.
func DigestOf(r io.Reader) (string, error) {
	h := sha3.New256()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
