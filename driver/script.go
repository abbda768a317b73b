// Package driver runs register file scripts: a line-oriented stand-in for the
// instruction stream the NTT datapath issues to the special purpose
// registers.
//
// Each statement stages writes or operations for the current cycle until a
// commit or abort closes it:
//
//	write q 0xd01
//	load_psi
//	commit
//	expect twiddle 0x690
package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/pqsim/pqspr"
)

// Verb identifies a script statement.
type Verb uint8

// Script verbs.
const (
	VerbUnknown Verb = iota
	VerbWrite
	VerbLane
	VerbInc
	VerbSet
	VerbUpdate
	VerbLoadPsi
	VerbNegate
	VerbTwiddle
	VerbInvalid
	VerbWipe
	VerbExpect
	VerbCommit
	VerbAbort
)

var verbNames = map[Verb]string{
	VerbWrite:   "write",
	VerbLane:    "lane",
	VerbInc:     "inc",
	VerbSet:     "set",
	VerbUpdate:  "update",
	VerbLoadPsi: "load_psi",
	VerbNegate:  "negate",
	VerbTwiddle: "twiddle",
	VerbInvalid: "invalid",
	VerbWipe:    "wipe",
	VerbExpect:  "expect",
	VerbCommit:  "commit",
	VerbAbort:   "abort",
}

// operands lists the operand count of every verb.
var operands = map[Verb]int{
	VerbWrite:   2,
	VerbLane:    3,
	VerbInc:     1,
	VerbSet:     1,
	VerbUpdate:  1,
	VerbLoadPsi: 0,
	VerbNegate:  0,
	VerbTwiddle: 0,
	VerbInvalid: 1,
	VerbWipe:    0,
	VerbExpect:  2,
	VerbCommit:  0,
	VerbAbort:   0,
}

var verbsByName = func() map[string]Verb {
	m := make(map[string]Verb, len(verbNames))
	for v, name := range verbNames {
		m[name] = v
	}
	return m
}()

func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "unknown"
}

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a malformed script line.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Statement is one parsed script line. Registers stay unresolved until the
// statement runs against a file, so the same script works with any trace
// prefix.
type Statement struct {
	Line  int
	Verb  Verb
	Reg   string
	Lane  int
	Value pqspr.Value
	Text  string
}

func (s Statement) String() string {
	return s.Text
}

// Closes reports whether the statement ends a cycle.
func (s Statement) Closes() bool {
	return s.Verb == VerbCommit || s.Verb == VerbAbort
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Statement, error) {
	var stmts []Statement

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		stmt, ok, err := ParseLine(scanner.Text(), n)
		if err != nil {
			return nil, err
		}
		if ok {
			stmts = append(stmts, stmt)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return stmts, nil
}

// ParseLine parses line n of a script. It returns false for blank and
// comment-only lines.
func ParseLine(line string, n int) (Statement, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	text := strings.TrimSpace(line)
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Statement{}, false, nil
	}

	fail := func(format string, args ...interface{}) (Statement, bool, error) {
		return Statement{}, false, &SyntaxError{Line: n, Text: text, Msg: fmt.Sprintf(format, args...)}
	}

	verb, ok := verbsByName[strings.ToLower(fields[0])]
	if !ok {
		return fail("unknown statement %q", fields[0])
	}

	args := fields[1:]
	if len(args) != operands[verb] {
		return fail("%s takes %d operands, got %d", verb, operands[verb], len(args))
	}

	stmt := Statement{Line: n, Verb: verb, Text: text}

	switch verb {
	case VerbWrite, VerbExpect:
		v, err := pqspr.ParseValue(args[1])
		if err != nil {
			return fail("%v", err)
		}
		stmt.Reg = args[0]
		stmt.Value = v
	case VerbLane:
		lane, err := strconv.Atoi(args[1])
		if err != nil {
			return fail("bad lane %q", args[1])
		}
		v, err := pqspr.ParseValue(args[2])
		if err != nil {
			return fail("%v", err)
		}
		if !v.IsKnown() || !v.FitsWidth(64) {
			return fail("lane value must be a known 64-bit number")
		}
		stmt.Reg = args[0]
		stmt.Lane = lane
		stmt.Value = v
	case VerbInc, VerbSet, VerbUpdate, VerbInvalid:
		stmt.Reg = args[0]
	}

	return stmt, true, nil
}
