package tracing

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Mismatch is the first line at which two traces diverge. An empty Want or
// Got means that trace ended early.
type Mismatch struct {
	Line int
	Want string
	Got  string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("trace mismatch at line %d: want %q, got %q", m.Line, m.Want, m.Got)
}

// Compare reads two traces line by line and returns the first mismatch, or
// nil if they agree. Trailing whitespace is ignored.
func Compare(want, got io.Reader) (*Mismatch, error) {
	ws := bufio.NewScanner(want)
	gs := bufio.NewScanner(got)

	for line := 1; ; line++ {
		w, wok, err := next(ws)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference trace: %w", err)
		}

		g, gok, err := next(gs)
		if err != nil {
			return nil, fmt.Errorf("failed to read trace: %w", err)
		}

		if !wok && !gok {
			return nil, nil
		}
		if wok != gok || w != g {
			return &Mismatch{Line: line, Want: w, Got: g}, nil
		}
	}
}

func next(s *bufio.Scanner) (string, bool, error) {
	if !s.Scan() {
		return "", false, s.Err()
	}
	return strings.TrimRight(s.Text(), " \t\r"), true, nil
}
