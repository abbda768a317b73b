package pqspr

import (
	"errors"
	"fmt"
)

// Contract violations. They are never recoverable: the caller drives the file
// from an already validated instruction stream, so any of these means the
// engine or the modelled hardware description is wrong.
var (
	ErrLaneRange    = errors.New("lane index out of range")
	ErrValueRange   = errors.New("value does not fit register")
	ErrOverflow     = errors.New("counter overflow")
	ErrNegateRange  = errors.New("modulus smaller than operand")
	ErrUnsupported  = errors.New("operation not supported by register")
	ErrIndexRange   = errors.New("register index out of range")
	ErrInconsistent = errors.New("pending set out of sync with register state")
)

// ContractError reports a contract violation together with the register and
// the offending value.
type ContractError struct {
	Reg   int
	Name  string
	Op    string
	Value string
	Err   error
}

func (e *ContractError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("pqspr: %s on %s (reg %d): %v", e.Op, e.Name, e.Reg, e.Err)
	}
	return fmt.Sprintf("pqspr: %s on %s (reg %d) with %s: %v",
		e.Op, e.Name, e.Reg, e.Value, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
