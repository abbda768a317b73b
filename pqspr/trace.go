package pqspr

import "fmt"

// TraceEntry is the record of one register write in one cycle. An unknown
// value renders as a run of 'x' digits of the trace width.
type TraceEntry struct {
	Name  string
	Width int
	Value Value
}

// String renders the entry in the ISS trace format, NAME = 0xHH..H.
func (e TraceEntry) String() string {
	return fmt.Sprintf("%s = 0x%s", e.Name, e.Value.Hex(e.Width))
}

// RTLString renders the entry in the format of the RTL trace log.
func (e TraceEntry) RTLString() string {
	return fmt.Sprintf("> %s: 0x%s", e.Name, e.Value.Hex(e.Width))
}
