package cpu

import (
	"errors"
	"fmt"
)

// ErrUndefinedOpcode is matched by errors.Is for any UndefinedOpcodeError.
var ErrUndefinedOpcode = errors.New("undefined opcode")

// UndefinedOpcodeError reports execution of an opcode with no handler.
// Execution cannot continue past it.
type UndefinedOpcodeError struct {
	Opcode byte
	PC     uint16 // address the opcode was fetched from
}

func (e *UndefinedOpcodeError) Error() string {
	return fmt.Sprintf("cpu: undefined opcode %02X at PC=%04X", e.Opcode, e.PC)
}

func (e *UndefinedOpcodeError) Unwrap() error { return ErrUndefinedOpcode }

// UndefinedOpcodes lists the primary opcodes that have no instruction.
var UndefinedOpcodes = [...]byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
